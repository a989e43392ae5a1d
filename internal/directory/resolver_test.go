package directory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obeidat/hrdesk/internal/domain"
	"github.com/obeidat/hrdesk/internal/logging"
)

type stubSource struct {
	identities map[string]*domain.Identity
	err        error
}

func (s *stubSource) LookupByExternalID(_ context.Context, externalID string) (*domain.Identity, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.identities[externalID], nil
}

func newResolver(src *stubSource) *Resolver {
	return NewResolver(src, logging.New(nil, "silent"))
}

func TestResolve_Known(t *testing.T) {
	src := &stubSource{identities: map[string]*domain.Identity{
		"tg-42": {EmployeeID: 7, ExternalID: "tg-42", FullName: "Omar Khalil", Role: domain.RoleEmployee},
	}}
	r := newResolver(src)

	id, err := r.Resolve(context.Background(), "tg-42")
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, 7, id.EmployeeID)
}

func TestResolve_Unregistered(t *testing.T) {
	r := newResolver(&stubSource{identities: map[string]*domain.Identity{}})

	id, err := r.Resolve(context.Background(), "tg-unknown")
	require.NoError(t, err)
	assert.Nil(t, id)
}

func TestResolve_EmptyExternalID(t *testing.T) {
	r := newResolver(&stubSource{identities: map[string]*domain.Identity{
		"": {EmployeeID: 1, Role: domain.RoleEmployee},
	}})

	id, err := r.Resolve(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, id)
}

func TestResolve_SourceErrorIsNotDenial(t *testing.T) {
	boom := errors.New("connection reset")
	r := newResolver(&stubSource{err: boom})

	id, err := r.Resolve(context.Background(), "tg-42")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, id)
}

func TestResolve_InvalidRoleTreatedAsUnregistered(t *testing.T) {
	src := &stubSource{identities: map[string]*domain.Identity{
		"tg-42": {EmployeeID: 7, Role: domain.Role("superadmin")},
	}}
	r := newResolver(src)

	id, err := r.Resolve(context.Background(), "tg-42")
	require.NoError(t, err)
	assert.Nil(t, id)
}
