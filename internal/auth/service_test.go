package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamsite/backend/internal/domain"
	"teamsite/backend/internal/storage/memory"
)

func newTestService() *Service {
	return NewService(memory.NewStore())
}

func TestRegister(t *testing.T) {
	svc := newTestService()

	t.Run("成功注册", func(t *testing.T) {
		user, err := svc.Register(RegisterInput{
			Email:    "alice@example.com",
			Password: "password123",
			Name:     "Alice",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, user.ID)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.Equal(t, domain.RoleUser, user.Role)
		assert.True(t, user.IsActive)
		assert.NotEqual(t, "password123", user.PasswordHash, "密码不应明文存储")
	})

	t.Run("邮箱已存在", func(t *testing.T) {
		_, err := svc.Register(RegisterInput{
			Email:    "Alice@Example.com",
			Password: "password123",
			Name:     "Alice2",
		})
		assert.ErrorIs(t, err, ErrEmailExists, "邮箱比较应不区分大小写")
	})

	t.Run("无效邮箱", func(t *testing.T) {
		_, err := svc.Register(RegisterInput{
			Email:    "not-an-email",
			Password: "password123",
		})
		assert.ErrorIs(t, err, ErrInvalidEmail)
	})

	t.Run("密码过短", func(t *testing.T) {
		_, err := svc.Register(RegisterInput{
			Email:    "bob@example.com",
			Password: "short",
		})
		assert.Error(t, err)
	})
}

func TestLogin(t *testing.T) {
	svc := newTestService()

	_, err := svc.Register(RegisterInput{
		Email:    "carol@example.com",
		Password: "password123",
		Name:     "Carol",
	})
	require.NoError(t, err)

	t.Run("成功登录", func(t *testing.T) {
		user, err := svc.Login(LoginInput{Email: "carol@example.com", Password: "password123"})
		require.NoError(t, err)
		assert.Equal(t, "carol@example.com", user.Email)
	})

	t.Run("密码错误", func(t *testing.T) {
		_, err := svc.Login(LoginInput{Email: "carol@example.com", Password: "wrongpass1"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("用户不存在", func(t *testing.T) {
		_, err := svc.Login(LoginInput{Email: "nobody@example.com", Password: "password123"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestChangePassword(t *testing.T) {
	svc := newTestService()

	user, err := svc.Register(RegisterInput{
		Email:    "dave@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	require.NoError(t, svc.ChangePassword(user.ID, "password123", "newpassword456"))

	_, err = svc.Login(LoginInput{Email: "dave@example.com", Password: "newpassword456"})
	assert.NoError(t, err)

	_, err = svc.Login(LoginInput{Email: "dave@example.com", Password: "password123"})
	assert.Error(t, err, "旧密码应失效")
}
