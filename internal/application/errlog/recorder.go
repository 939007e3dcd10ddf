package errlog

import (
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Clientes-api/internal/domain/entity"
	"github.com/jhoicas/Clientes-api/internal/domain/repository"
	"github.com/jhoicas/Clientes-api/pkg/logger"
)

// Recorder persiste errores de la aplicación en la tabla logs.
// Es fire-and-forget: si el propio sink falla, el error se escribe en el
// logger estructurado y se traga — registrar un error nunca produce otro.
type Recorder struct {
	repo repository.ErrorLogRepository
	log  *logger.Logger
}

// NewRecorder construye el recorder.
func NewRecorder(repo repository.ErrorLogRepository, log *logger.Logger) *Recorder {
	return &Recorder{repo: repo, log: log}
}

// Record persiste un registro de error con contexto operativo
// (endpoint, método HTTP y usuario si se conoce).
func (r *Recorder) Record(level, message, stackTrace, endpoint, method string, userID *string) {
	entry := &entity.ErrorLog{
		ID:         uuid.New().String(),
		Level:      level,
		Message:    message,
		StackTrace: stackTrace,
		Endpoint:   endpoint,
		Method:     method,
		UserID:     userID,
		CreatedAt:  time.Now(),
	}
	if err := r.repo.Create(entry); err != nil {
		r.log.Error().Err(err).Str("original_message", message).Msg("persistir error log")
	}
}
