package handler

import (
	"go.uber.org/zap"

	"gatepass-nexus/backend/internal/realtime"
	"gatepass-nexus/backend/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Gatepass      *GatepassHandler
	Visitor       *VisitorHandler
	Asset         *AssetHandler
	Employee      *EmployeeHandler
	Communication *CommunicationHandler
	Profile       *ProfileHandler
	Analytics     *AnalyticsHandler
	Report        *ReportHandler
	Stream        *StreamHandler
}

// NewHandler 创建 Handler 聚合
// notices 与 hub 可为 nil，对应接口返回空数据或 503
func NewHandler(svc *service.Service, notices NoticeReader, hub *realtime.Hub, logger *zap.Logger) *Handler {
	return &Handler{
		Gatepass:      NewGatepassHandler(svc.Gatepass),
		Visitor:       NewVisitorHandler(svc.Visitor),
		Asset:         NewAssetHandler(svc.Asset),
		Employee:      NewEmployeeHandler(svc.Employee),
		Communication: NewCommunicationHandler(svc.Communication),
		Profile:       NewProfileHandler(svc.Profile, notices),
		Analytics:     NewAnalyticsHandler(svc.Analytics),
		Report:        NewReportHandler(svc.Report),
		Stream:        NewStreamHandler(svc, hub, logger),
	}
}
