package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/workspace-task-api/internal/models"
	"github.com/yukikurage/workspace-task-api/internal/repository"
	"github.com/yukikurage/workspace-task-api/internal/security"
)

func signupAlice(t *testing.T, env testEnv) *AuthResult {
	t.Helper()
	result, err := env.auth.Signup(SignupInput{
		Email:     "alice@example.com",
		Password:  "secret1",
		FirstName: "Alice",
		LastName:  "Liddell",
	})
	require.NoError(t, err)
	return result
}

func TestAuthService_Signup(t *testing.T) {
	env := setupServices(t, nil)

	result := signupAlice(t, env)
	assert.NotZero(t, result.User.ID)
	assert.NotEqual(t, "secret1", result.User.PasswordHash)
	assert.NotEmpty(t, result.Token)

	claims, err := env.tokens.Verify(result.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Email)
}

func TestAuthService_Signup_DuplicateEmail(t *testing.T) {
	env := setupServices(t, nil)
	signupAlice(t, env)

	_, err := env.auth.Signup(SignupInput{
		Email:     " Alice@Example.com ",
		Password:  "another",
		FirstName: "Other",
		LastName:  "Alice",
	})
	require.ErrorIs(t, err, ErrEmailTaken)

	var count int64
	require.NoError(t, env.db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

// racyUserRepository reports every email as free, as a concurrent signup
// would observe before the other request commits.
type racyUserRepository struct {
	repository.UserRepository
}

func (racyUserRepository) EmailTaken(string, uint64) (bool, error) {
	return false, nil
}

func TestAuthService_Signup_UniqueIndexConflict(t *testing.T) {
	env := setupServices(t, nil)
	signupAlice(t, env)

	racy := racyUserRepository{UserRepository: repository.NewUserRepository(env.db)}
	auth := NewAuthService(racy, env.tokens)
	_, err := auth.Signup(SignupInput{Email: "alice@example.com", Password: "secret1"})
	require.ErrorIs(t, err, ErrEmailTaken)

	bob, err := auth.Signup(SignupInput{Email: "bob@example.com", Password: "secret1"})
	require.NoError(t, err)

	users := NewUserService(racy)
	email := "alice@example.com"
	_, err = users.UpdateUser(bob.User.ID, bob.User.ID, UpdateUserInput{Email: &email})
	require.ErrorIs(t, err, ErrEmailTaken)

	var count int64
	require.NoError(t, env.db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestAuthService_Signup_ShortPassword(t *testing.T) {
	env := setupServices(t, nil)

	_, err := env.auth.Signup(SignupInput{Email: "bob@example.com", Password: "12345"})
	require.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestAuthService_Login(t *testing.T) {
	env := setupServices(t, nil)
	signupAlice(t, env)

	result, err := env.auth.Login(LoginInput{Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "Alice", result.User.FirstName)
	assert.NotEmpty(t, result.Token)

	_, wrongPassword := env.auth.Login(LoginInput{Email: "alice@example.com", Password: "wrong"})
	_, unknownEmail := env.auth.Login(LoginInput{Email: "nobody@example.com", Password: "secret1"})
	require.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	require.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestAuthService_Authenticate(t *testing.T) {
	env := setupServices(t, nil)
	result := signupAlice(t, env)

	user, err := env.auth.Authenticate(result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, user.ID)

	_, err = env.auth.Authenticate("garbage")
	require.ErrorIs(t, err, security.ErrTokenInvalid)

	require.NoError(t, env.users.DeleteUser(result.User.ID, result.User.ID))

	_, err = env.auth.Authenticate(result.Token)
	require.ErrorIs(t, err, ErrNotFound)

	// The email stays reserved after deletion.
	_, err = env.auth.Signup(SignupInput{Email: "alice@example.com", Password: "secret1"})
	require.ErrorIs(t, err, ErrEmailTaken)
}
