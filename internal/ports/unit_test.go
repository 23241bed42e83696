package ports

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veritasedu/conclave/internal/domain"
)

// stubUnit is a minimal Unit used to exercise the interface contract.
type stubUnit struct {
	name    string
	execErr error
	valErr  error
}

func (u *stubUnit) Name() string { return u.name }

func (u *stubUnit) Execute(ctx context.Context, state domain.State) (domain.State, error) {
	if err := ctx.Err(); err != nil {
		return state, err
	}
	if u.execErr != nil {
		return state, u.execErr
	}
	return domain.With(state, domain.KeyApplicationID, "app-1"), nil
}

func (u *stubUnit) Validate() error { return u.valErr }

var _ Unit = (*stubUnit)(nil)

func TestUnitExecuteReturnsNewState(t *testing.T) {
	unit := &stubUnit{name: "stub"}
	state := domain.NewState()

	next, err := unit.Execute(context.Background(), state)
	require.NoError(t, err)

	_, ok := domain.Get(state, domain.KeyApplicationID)
	assert.False(t, ok, "input state must stay unchanged")

	id, ok := domain.Get(next, domain.KeyApplicationID)
	require.True(t, ok)
	assert.Equal(t, "app-1", id)
}

func TestUnitExecuteFailure(t *testing.T) {
	execErr := errors.New("execution failed")
	unit := &stubUnit{name: "stub", execErr: execErr}

	state := domain.NewState()
	next, err := unit.Execute(context.Background(), state)

	assert.ErrorIs(t, err, execErr)
	assert.Equal(t, state, next, "failed execution returns the input state")
}

func TestUnitContextCancellation(t *testing.T) {
	unit := &stubUnit{name: "stub"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := unit.Execute(ctx, domain.NewState())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUnitValidate(t *testing.T) {
	valErr := errors.New("missing configuration")

	assert.NoError(t, (&stubUnit{name: "ok"}).Validate())
	assert.ErrorIs(t, (&stubUnit{name: "bad", valErr: valErr}).Validate(), valErr)
}
