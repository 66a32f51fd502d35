package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domain "github.com/reservaya/booking-api/internal/domain/appointment"
	"github.com/reservaya/booking-api/internal/middleware"
	"github.com/reservaya/booking-api/internal/rbac"
)

// currentActor resuelve la identidad del request una sola vez: usuario, rol
// y, para el rol barber, el barbero vinculado a la cuenta.
func currentActor(c *gin.Context, repo domain.Repository) rbac.Actor {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	businessID := c.MustGet(middleware.ContextBusinessID).(uuid.UUID)

	role, ok := rbac.ParseRole(c.GetString(middleware.ContextUserRole))
	if !ok {
		role = rbac.RoleBarber // rol desconocido: el de menos privilegio
	}

	actor := rbac.Actor{UserID: userID, Role: role}

	if role == rbac.RoleBarber {
		if b, err := repo.GetBarberByUser(c.Request.Context(), businessID, userID); err == nil {
			actor.BarberID = &b.ID
		}
	}

	return actor
}

func currentBusinessID(c *gin.Context) uuid.UUID {
	return c.MustGet(middleware.ContextBusinessID).(uuid.UUID)
}

func currentUserID(c *gin.Context) uuid.UUID {
	return c.MustGet(middleware.ContextUserID).(uuid.UUID)
}
