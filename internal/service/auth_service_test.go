package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/samlehman617/HeyImHungry/internal/domain"
	"github.com/samlehman617/HeyImHungry/internal/service"
	"github.com/samlehman617/HeyImHungry/internal/token"
)

const testSecret = "iuLH@N$piu23jI@#ULVNiuLH@N$piu23jI@#ULVN"

func newTestAuthService(t *testing.T, users *memoryUserRepo) (*service.AuthService, *token.Codec) {
	t.Helper()
	codec := token.NewCodec([]byte(testSecret), time.Minute)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return service.NewAuthService(users, codec, node, zap.NewNop()), codec
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	users := newMemoryUserRepo()
	auth, codec := newTestAuthService(t, users)

	user, err := auth.Register(ctx, "alice", "hunter22")
	require.NoError(t, err)
	require.Equal(t, "alice", user.Username)
	require.NotEqual(t, "hunter22", user.PasswordHash)

	resp, err := auth.Login(ctx, "alice", "hunter22")
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	require.Equal(t, 60, resp.ExpiresIn)

	subject, err := codec.Verify(resp.Token)
	require.NoError(t, err)
	require.Equal(t, user.ID, subject)

	_, err = auth.Login(ctx, "alice", "wrong")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegisterConflict(t *testing.T) {
	ctx := context.Background()
	users := newMemoryUserRepo()
	auth, _ := newTestAuthService(t, users)

	_, err := auth.Register(ctx, "alice", "hunter22")
	require.NoError(t, err)

	_, err = auth.Register(ctx, "alice", "different")
	require.ErrorIs(t, err, domain.ErrConflict)
}

func TestRegisterMalformed(t *testing.T) {
	ctx := context.Background()
	users := newMemoryUserRepo()
	auth, _ := newTestAuthService(t, users)

	_, err := auth.Register(ctx, "", "hunter22")
	require.ErrorIs(t, err, domain.ErrMalformed)

	_, err = auth.Register(ctx, "alice", "")
	require.ErrorIs(t, err, domain.ErrMalformed)
}

func TestConcurrentRegistrationUniqueness(t *testing.T) {
	ctx := context.Background()
	users := newMemoryUserRepo()
	auth, _ := newTestAuthService(t, users)

	const callers = 8
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = auth.Register(ctx, "alice", "hunter22")
		}(i)
	}
	wg.Wait()

	successes, conflicts := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case err == domain.ErrConflict:
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, successes)
	require.Equal(t, callers-1, conflicts)
	require.Equal(t, 1, users.count())
}

func TestResolveTokenIgnoresPassword(t *testing.T) {
	ctx := context.Background()
	users := newMemoryUserRepo()
	auth, codec := newTestAuthService(t, users)

	user, err := auth.Register(ctx, "alice", "hunter22")
	require.NoError(t, err)

	issued, err := codec.IssueAccess(user.ID)
	require.NoError(t, err)

	// A currently valid token resolves via the token path regardless of any
	// accompanying password.
	resolved, err := auth.Resolve(ctx, issued, "definitely not the password")
	require.NoError(t, err)
	require.Equal(t, user.ID, resolved.ID)
}

func TestResolveExpiredTokenFallsBack(t *testing.T) {
	ctx := context.Background()
	users := newMemoryUserRepo()
	auth, codec := newTestAuthService(t, users)

	user, err := auth.Register(ctx, "alice", "hunter22")
	require.NoError(t, err)

	expired, err := codec.Issue(user.ID, -time.Second)
	require.NoError(t, err)

	// The expired token is treated as a username, which does not exist.
	_, err = auth.Resolve(ctx, expired, "hunter22")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResolveUnknownSubject(t *testing.T) {
	ctx := context.Background()
	users := newMemoryUserRepo()
	auth, codec := newTestAuthService(t, users)

	issued, err := codec.IssueAccess(424242)
	require.NoError(t, err)

	_, err = auth.Resolve(ctx, issued, "")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

// memoryUserRepo is an in-memory UserRepository with the same atomic
// check-and-insert contract as the Postgres implementation.
type memoryUserRepo struct {
	mu     sync.Mutex
	byName map[string]domain.User
	byID   map[int64]domain.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{
		byName: make(map[string]domain.User),
		byID:   make(map[int64]domain.User),
	}
}

func (m *memoryUserRepo) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.byName[username]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return user, nil
}

func (m *memoryUserRepo) GetByID(ctx context.Context, userID int64) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.byID[userID]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return user, nil
}

func (m *memoryUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byName[user.Username]; exists {
		return domain.User{}, domain.ErrConflict
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	m.byName[user.Username] = user
	m.byID[user.ID] = user
	return user, nil
}

func (m *memoryUserRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byName)
}
