package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/St1cky1/team-dashboard/internal/api"
	"github.com/St1cky1/team-dashboard/internal/entity"
	"github.com/St1cky1/team-dashboard/internal/usecase"
)

const ServiceName = "dashboard.v1.DashboardService"

// DashboardServer - read-only доступ к дашборду для внутренних сервисов.
// Сообщения - google.protobuf.Struct, поэтому protoc не нужен.
type DashboardServer interface {
	QueryTasks(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetStatistics(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetTeamBreakdown(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

func unaryHandler(call func(DashboardServer, context.Context, *structpb.Struct) (*structpb.Struct, error), method string) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(DashboardServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: "/" + ServiceName + "/" + method,
		}
		return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
			return call(srv.(DashboardServer), ctx, req.(*structpb.Struct))
		})
	}
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DashboardServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "QueryTasks", Handler: unaryHandler(DashboardServer.QueryTasks, "QueryTasks")},
		{MethodName: "GetStatistics", Handler: unaryHandler(DashboardServer.GetStatistics, "GetStatistics")},
		{MethodName: "GetTeamBreakdown", Handler: unaryHandler(DashboardServer.GetTeamBreakdown, "GetTeamBreakdown")},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "dashboard/v1/dashboard.proto",
}

type GRPCServer struct {
	taskService *usecase.TaskService
	logger      *zap.Logger
	requests    *prometheus.CounterVec
	server      *grpc.Server
}

// NewGRPCServer - registerer может быть nil, тогда метрики не собираются
func NewGRPCServer(taskService *usecase.TaskService, logger *zap.Logger, registerer prometheus.Registerer) *GRPCServer {
	s := &GRPCServer{
		taskService: taskService,
		logger:      logger,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dashboard",
			Name:      "grpc_requests_total",
			Help:      "gRPC requests by method and status code.",
		}, []string{"method", "code"}),
	}
	if registerer != nil {
		registerer.MustRegister(s.requests)
	}

	s.server = grpc.NewServer(
		grpc.UnaryInterceptor(s.unaryInterceptor),
	)
	s.server.RegisterService(&serviceDesc, s)
	return s
}

func (s *GRPCServer) Start(port string) error {
	lis, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	s.logger.Info("gRPC server listening", zap.String("port", port))
	return s.Serve(lis)
}

func (s *GRPCServer) Serve(lis net.Listener) error {
	return s.server.Serve(lis)
}

func (s *GRPCServer) Stop() {
	s.server.GracefulStop()
}

func (s *GRPCServer) unaryInterceptor(ctx context.Context, req any,
	info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	code := status.Code(err)

	s.requests.WithLabelValues(info.FullMethod, code.String()).Inc()
	s.logger.Info("grpc request",
		zap.String("method", info.FullMethod),
		zap.String("code", code.String()),
		zap.Duration("duration", time.Since(start)),
	)
	return resp, err
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, entity.ErrUnknownStatus),
		errors.Is(err, entity.ErrInvalidDate):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request canceled")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

// queryValues переводит плоский Struct в query-параметры REST,
// чтобы фильтр разбирался одинаково для обоих транспортов
func queryValues(req *structpb.Struct) map[string][]string {
	q := make(map[string][]string, len(req.GetFields()))
	for key, v := range req.GetFields() {
		if s, ok := v.GetKind().(*structpb.Value_StringValue); ok {
			q[key] = []string{s.StringValue}
		}
	}
	return q
}

// toStruct кодирует значение через JSON, имена полей совпадают с REST
func toStruct(fields map[string]any) (*structpb.Struct, error) {
	data, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return structpb.NewStruct(m)
}

// QueryTasks - ключи запроса как у GET /api/tasks: assignedTo, status, client,
// search, dateRange, dateFrom, dateTo, sortBy, direction
func (s *GRPCServer) QueryTasks(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	q := queryValues(req)
	f, err := api.ParseFilter(q)
	if err != nil {
		return nil, toStatus(err)
	}

	tasks, err := s.taskService.QueryTasks(ctx, f, api.ParseSort(q))
	if err != nil {
		return nil, toStatus(err)
	}
	if tasks == nil {
		tasks = []entity.Task{}
	}

	resp, err := toStruct(map[string]any{"tasks": tasks, "total": len(tasks)})
	if err != nil {
		return nil, toStatus(err)
	}
	return resp, nil
}

func (s *GRPCServer) GetStatistics(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	stats, err := s.taskService.Statistics(ctx)
	if err != nil {
		return nil, toStatus(err)
	}

	resp, err := toStruct(map[string]any{"stats": stats})
	if err != nil {
		return nil, toStatus(err)
	}
	return resp, nil
}

func (s *GRPCServer) GetTeamBreakdown(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	team, err := s.taskService.TeamBreakdown(ctx)
	if err != nil {
		return nil, toStatus(err)
	}

	resp, err := toStruct(map[string]any{"members": team})
	if err != nil {
		return nil, toStatus(err)
	}
	return resp, nil
}
