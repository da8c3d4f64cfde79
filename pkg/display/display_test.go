package display

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/sportsmeet/manager/internal/model"
)

func TestName(t *testing.T) {
	assert.Equal(t, "System", Name(nil))
	assert.Equal(t, "ravi", Name(&model.User{Username: "ravi"}))
	assert.Equal(t, "Ravi Kumar", Name(&model.User{Username: "ravi", FirstName: "Ravi", LastName: "Kumar"}))
}

func TestInitials(t *testing.T) {
	assert.Equal(t, "RK", Initials(&model.User{FirstName: "Ravi", LastName: "Kumar"}))
	assert.Equal(t, "R", Initials(&model.User{Username: "ravi"}))
	assert.Equal(t, "S", Initials(nil))
}

func TestInitials_MultibyteNames(t *testing.T) {
	got := Initials(&model.User{FirstName: "Émile", LastName: "Ñato"})

	assert.Equal(t, "ÉÑ", got)
	assert.True(t, utf8.ValidString(got))
}

func TestSportIcon_UnknownFallsBack(t *testing.T) {
	assert.Equal(t, "⚽", SportIcon("Football"))
	assert.Equal(t, "🏅", SportIcon("kabaddi"))
}

func TestStatusBadge(t *testing.T) {
	assert.Equal(t, "success", StatusBadge(model.EventPublished))
	assert.Equal(t, "danger", StatusBadge(model.EventCancelled))
	assert.Equal(t, "warning", StatusBadge(model.EventDraft))
}
