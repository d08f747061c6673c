package service

import (
	"go.uber.org/zap"

	"gatepass-nexus/backend/internal/notify"
	"gatepass-nexus/backend/internal/realtime"
	"gatepass-nexus/backend/internal/repository"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Gatepass      GatepassService
	Visitor       VisitorService
	Asset         AssetService
	Employee      EmployeeService
	Communication CommunicationService
	Profile       ProfileService
	Analytics     AnalyticsService
	Report        ReportService
}

// NewService 创建 Service 聚合
// events 与 notifier 可为 nil，此时写操作不产生副作用
func NewService(
	repo *repository.Repository,
	codes CodeGenerator,
	events realtime.Publisher,
	notifier notify.Sink,
	logger *zap.Logger,
) *Service {
	return &Service{
		Gatepass:      NewGatepassService(repo, codes, events, notifier, logger),
		Visitor:       NewVisitorService(repo, codes, events, logger),
		Asset:         NewAssetService(repo, codes, events, notifier, logger),
		Employee:      NewEmployeeService(repo, codes, events, logger),
		Communication: NewCommunicationService(repo, events, notifier, logger),
		Profile:       NewProfileService(repo, logger),
		Analytics:     NewAnalyticsService(repo, logger),
		Report:        NewReportService(repo, logger),
	}
}
