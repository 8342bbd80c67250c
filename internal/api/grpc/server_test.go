package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/St1cky1/team-dashboard/internal/entity"
	"github.com/St1cky1/team-dashboard/internal/infrastructure/client"
	"github.com/St1cky1/team-dashboard/internal/repository"
	"github.com/St1cky1/team-dashboard/internal/usecase"
)

func day(s string) *civil.Date {
	d, err := civil.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return &d
}

type testClient struct {
	conn   *grpc.ClientConn
	server *GRPCServer
}

func newTestClient(t *testing.T) *testClient {
	t.Helper()

	tasks := []entity.Task{
		{ID: "task-1", Title: "SEO audit", AssignedTo: "Sidd", Status: entity.StatusInProgress, Client: "Inkup", AssignedOn: day("2024-06-01"), Deadline: day("2024-06-20")},
		{ID: "task-2", Title: "Ads setup", AssignedTo: "Harsh", Status: entity.StatusPending, Client: "Swingsaga", AssignedOn: day("2024-06-02"), Deadline: day("2024-06-10")},
		{ID: "task-3", Title: "Landing page", AssignedTo: "Sidd", Status: entity.StatusCompleted, Client: "Swingsaga", AssignedOn: day("2024-05-01"), Deadline: day("2024-05-10"), CompletedOn: day("2024-05-08")},
	}
	taskService := usecase.NewTaskService(
		repository.NewMemoryTaskRepository(tasks),
		repository.NewMemoryAuditRepository(),
		client.NoopPublisher{},
		usecase.TaskServiceConfig{TeamMembers: []string{"Sidd", "Harsh"}, Location: time.UTC},
	)

	lis := bufconn.Listen(1024 * 1024)
	server := NewGRPCServer(taskService, zap.NewNop(), prometheus.NewRegistry())
	go server.Serve(lis)
	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return &testClient{conn: conn, server: server}
}

func (c *testClient) call(t *testing.T, method string, req map[string]any) (*structpb.Struct, error) {
	t.Helper()
	in, err := structpb.NewStruct(req)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	out := new(structpb.Struct)
	err = c.conn.Invoke(ctx, "/"+ServiceName+"/"+method, in, out)
	return out, err
}

func TestQueryTasks(t *testing.T) {
	c := newTestClient(t)

	resp, err := c.call(t, "QueryTasks", map[string]any{
		"client":    "Swingsaga",
		"sortBy":    "title",
		"direction": "asc",
	})
	require.NoError(t, err)

	assert.Equal(t, float64(2), resp.Fields["total"].GetNumberValue())
	tasks := resp.Fields["tasks"].GetListValue().GetValues()
	require.Len(t, tasks, 2)
	assert.Equal(t, "Ads setup", tasks[0].GetStructValue().Fields["title"].GetStringValue())
	assert.Equal(t, "2024-06-10", tasks[0].GetStructValue().Fields["deadline"].GetStringValue())
	assert.Equal(t, "Landing page", tasks[1].GetStructValue().Fields["title"].GetStringValue())
}

func TestQueryTasksInvalidArgument(t *testing.T) {
	c := newTestClient(t)

	_, err := c.call(t, "QueryTasks", map[string]any{"status": "sleeping"})
	require.Error(t, err)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestGetStatistics(t *testing.T) {
	c := newTestClient(t)

	resp, err := c.call(t, "GetStatistics", map[string]any{})
	require.NoError(t, err)

	stats := resp.Fields["stats"].GetStructValue().Fields
	assert.Equal(t, float64(3), stats["total"].GetNumberValue())
	assert.Equal(t, float64(1), stats["completed"].GetNumberValue())
	assert.Equal(t, float64(33), stats["completionRate"].GetNumberValue())

	assert.Equal(t, 1.0, testutil.ToFloat64(
		c.server.requests.WithLabelValues("/"+ServiceName+"/GetStatistics", codes.OK.String())))
}

func TestGetTeamBreakdown(t *testing.T) {
	c := newTestClient(t)

	resp, err := c.call(t, "GetTeamBreakdown", map[string]any{})
	require.NoError(t, err)

	members := resp.Fields["members"].GetListValue().GetValues()
	require.Len(t, members, 2)
	sidd := members[0].GetStructValue().Fields
	assert.Equal(t, "Sidd", sidd["name"].GetStringValue())
	assert.Equal(t, float64(2), sidd["total"].GetNumberValue())
	assert.Len(t, sidd["activeTasks"].GetListValue().GetValues(), 1)
}

func TestUnknownMethod(t *testing.T) {
	c := newTestClient(t)

	_, err := c.call(t, "DeleteEverything", map[string]any{})
	assert.Equal(t, codes.Unimplemented, status.Code(err))
}
