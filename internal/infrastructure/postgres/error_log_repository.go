package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Clientes-api/internal/domain/entity"
	"github.com/jhoicas/Clientes-api/internal/domain/repository"
)

var _ repository.ErrorLogRepository = (*ErrorLogRepo)(nil)

// ErrorLogRepo sink de escritura para la tabla logs.
type ErrorLogRepo struct {
	q Querier
}

// NewErrorLogRepository construye el adaptador del error log.
func NewErrorLogRepository(q Querier) *ErrorLogRepo {
	return &ErrorLogRepo{q: q}
}

// Create persiste un registro de error.
func (r *ErrorLogRepo) Create(log *entity.ErrorLog) error {
	query := `
		INSERT INTO logs (id, level, message, stack_trace, endpoint, method, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		log.ID, log.Level, log.Message, log.StackTrace,
		log.Endpoint, log.Method, log.UserID, log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert error log: %w", err)
	}
	return nil
}
