package grpc

import (
	"errors"
	"time"

	"admin_console/internal/domain"

	"github.com/sirupsen/logrus"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthReporter serves grpc.health.v1 and tracks one status per remote store.
// A store turns NOT_SERVING after a call that found it unreachable or failing with 5xx,
// and SERVING again after the next successful call. Rejected requests do not change it.
type HealthReporter struct {
	server *health.Server
	log    *logrus.Logger
}

func NewHealthReporter(logger *logrus.Logger, services ...string) *HealthReporter {
	h := &HealthReporter{
		server: health.NewServer(),
		log:    logger,
	}
	h.server.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	for _, svc := range services {
		h.server.SetServingStatus(svc, healthpb.HealthCheckResponse_SERVING)
	}
	return h
}

func (h *HealthReporter) Register(s *grpclib.Server) {
	healthpb.RegisterHealthServer(s, h.server)
}

func (h *HealthReporter) Server() healthpb.HealthServer {
	return h.server
}

func (h *HealthReporter) ObserveCall(service, operation string, _ time.Duration, err error) {
	if err == nil {
		h.server.SetServingStatus(service, healthpb.HealthCheckResponse_SERVING)
		return
	}
	var te *domain.TransportError
	if errors.As(err, &te) && te.Unavailable() {
		h.log.Warnf("Health: %s marked NOT_SERVING after %s failed: %v", service, operation, err)
		h.server.SetServingStatus(service, healthpb.HealthCheckResponse_NOT_SERVING)
	}
}

// Shutdown flips every service to NOT_SERVING so probes stop routing here.
func (h *HealthReporter) Shutdown() {
	h.server.Shutdown()
}
