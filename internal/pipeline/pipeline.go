package pipeline

import (
	"fmt"

	dsusecase "dataprep/internal/dataset/usecase"
	pipelinehttp "dataprep/internal/pipeline/adapter/http"
	"dataprep/internal/pipeline/adapter/persistence/mongodb"
	"dataprep/internal/pipeline/adapter/security"
	"dataprep/internal/pipeline/config"
	"dataprep/internal/pipeline/usecase"
	"dataprep/internal/shared/eventbus"
	"dataprep/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"
)

// PipelineModule bundles job execution, realtime streaming and the HTTP API.
type PipelineModule struct {
	store      *mongodb.MongoJobStore
	bus        *eventbus.EventBus
	builder    *usecase.StepBuilder
	jobUC      *usecase.JobUsecase
	realtimeUC usecase.RealtimeUsecase
	tokens     *security.JWTokenService
	handler    *pipelinehttp.JobHandler
	wsHandler  *pipelinehttp.WebSocketHandler
}

// NewPipelineModule creates the pipeline module for service mode.
// trackerFactory may be nil to use in-memory dedupe tracking.
func NewPipelineModule(
	db *mongo.Database,
	loader usecase.RecordLoader,
	sink usecase.RecordSink,
	seeder *dsusecase.SeedUsecase,
	trackerFactory usecase.TrackerFactory,
	cfg *config.Config,
	log logger.Logger,
) (*PipelineModule, error) {
	if log == nil {
		log = logger.NewLogger()
	}

	store, err := mongodb.NewMongoJobStore(db, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create job store: %w", err)
	}

	tokens, err := security.NewJWTokenService(&cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}

	bus := eventbus.NewEventBus(log)
	realtimeUC := usecase.NewRealtimeUsecase(log)
	usecase.BindEventBus(bus, realtimeUC)

	builder := usecase.NewStepBuilder(trackerFactory)
	jobUC := usecase.NewJobUsecase(store, loader, sink, builder, bus, log)

	auth := pipelinehttp.NewAuthMiddleware(tokens)
	handler := pipelinehttp.NewJobHandler(jobUC, seeder, tokens, auth, log)
	wsHandler := pipelinehttp.NewWebSocketHandler(realtimeUC, auth, cfg.Server.ClientSendChannelBuffer, log)

	return &PipelineModule{
		store:      store,
		bus:        bus,
		builder:    builder,
		jobUC:      jobUC,
		realtimeUC: realtimeUC,
		tokens:     tokens,
		handler:    handler,
		wsHandler:  wsHandler,
	}, nil
}

// RegisterRoutes registers the job API and WebSocket routes.
func (pm *PipelineModule) RegisterRoutes(router fiber.Router) {
	pm.handler.RegisterRoutes(router)
	pm.wsHandler.RegisterRoutes(router)
}

// GetJobUsecase returns the job usecase.
func (pm *PipelineModule) GetJobUsecase() *usecase.JobUsecase {
	return pm.jobUC
}

// GetRealtimeUsecase returns the realtime usecase.
func (pm *PipelineModule) GetRealtimeUsecase() usecase.RealtimeUsecase {
	return pm.realtimeUC
}

// GetMiddleware returns the auth middleware guarding the API.
func (pm *PipelineModule) GetMiddleware() *pipelinehttp.AuthMiddleware {
	return pipelinehttp.NewAuthMiddleware(pm.tokens)
}

// Stop performs cleanup when the module is shut down.
func (pm *PipelineModule) Stop() error {
	return nil
}
