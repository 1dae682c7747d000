package authenticating

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/tire-sales-api/infrastructure/repository"
	"github.com/vfg2006/tire-sales-api/internal/config"
	"github.com/vfg2006/tire-sales-api/internal/domain"
	"github.com/vfg2006/tire-sales-api/pkg/apiErrors"
	"github.com/vfg2006/tire-sales-api/pkg/utils"
	"golang.org/x/crypto/bcrypt"
)

type Authenticator interface {
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	UpdateUser(ctx context.Context, request *domain.UpdateUserRequest) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
	LoginUser(ctx context.Context, email, password string) (string, error)
	GetUserProfile(ctx context.Context, userID string) (*domain.User, error)
	ValidateToken(tokenString string) (*domain.Claims, error)
	GenerateStrongPassword(ctx context.Context, requestUserID, targetUserID string) (string, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
	ValidatePasswordStrength(password string) error
	EnsureAdmin(ctx context.Context) error
}

type Service struct {
	userRepo repository.UserRepository
	cfg      *config.Config
	now      func() time.Time
}

func NewService(userRepo repository.UserRepository, cfg *config.Config) Authenticator {
	return &Service{
		userRepo: userRepo,
		cfg:      cfg,
		now:      time.Now,
	}
}

// EnsureAdmin cadastra o primeiro administrador com ADMIN_EMAIL e ADMIN_PASSWORD quando ainda não há usuários
func (s *Service) EnsureAdmin(ctx context.Context) error {
	users, err := s.userRepo.ListUsers(ctx)
	if err != nil {
		return NewAuthError(ErrDatabaseOperation, apiErrors.ErrPersistence, err.Error())
	}

	if len(users) > 0 {
		return nil
	}

	if s.cfg.Auth.AdminEmail == "" || s.cfg.Auth.AdminPassword == "" {
		logrus.Warn("Nenhum usuário cadastrado e ADMIN_EMAIL/ADMIN_PASSWORD não configurados")
		return nil
	}

	admin, err := s.CreateUser(ctx, &domain.User{
		Name:         s.cfg.Auth.AdminName,
		Email:        s.cfg.Auth.AdminEmail,
		PasswordHash: s.cfg.Auth.AdminPassword,
		Role:         domain.RoleAdmin,
	})
	if err != nil {
		return err
	}

	logrus.WithField("email", admin.Email).Info("Administrador inicial cadastrado")

	return nil
}

func (s *Service) UpdateUser(ctx context.Context, request *domain.UpdateUserRequest) (*domain.User, error) {
	if request.ID == "" {
		return nil, NewAuthError(ErrMissingRequiredData, apiErrors.ErrMissingRequiredData, "ID é obrigatório")
	}

	userDatabase, err := s.userRepo.GetUserByID(ctx, request.ID)
	if err != nil {
		return nil, NewUserAuthError(ErrDatabaseOperation, apiErrors.ErrPersistence, request.ID, err.Error())
	}
	if userDatabase == nil {
		return nil, NewUserAuthError(ErrUserNotFound, apiErrors.ErrUserNotFound, request.ID, "")
	}

	if request.Name != nil {
		userDatabase.Name = strings.TrimSpace(*request.Name)
	}

	if request.Email != nil {
		email := handleEmail(*request.Email)
		if email != userDatabase.Email {
			existing, err := s.userRepo.GetUserByEmail(ctx, email)
			if err != nil {
				return nil, NewUserAuthError(ErrDatabaseOperation, apiErrors.ErrPersistence, request.ID, err.Error())
			}
			if existing != nil {
				return nil, NewAuthError(ErrUserAlreadyExists, apiErrors.ErrUserAlreadyExists, "Email já cadastrado")
			}
		}
		userDatabase.Email = email
	}

	if request.Role != nil {
		if !request.Role.Valid() {
			return nil, NewAuthError(ErrInvalidFormat, apiErrors.ErrInvalidFormat, "role deve ser admin ou seller")
		}
		userDatabase.Role = *request.Role
	}

	if request.Active != nil {
		userDatabase.Active = *request.Active
	}

	userDatabase.UpdatedAt = s.now()

	if err := s.userRepo.UpdateUser(ctx, userDatabase); err != nil {
		return nil, NewUserAuthError(ErrDatabaseOperation, apiErrors.ErrPersistence, request.ID, err.Error())
	}

	userDatabase.PasswordHash = ""
	return userDatabase, nil
}

// CreateUser recebe a senha em texto no campo PasswordHash e grava apenas o hash
func (s *Service) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user.Email == "" || user.Name == "" || user.PasswordHash == "" {
		return nil, NewAuthError(ErrMissingRequiredData, apiErrors.ErrMissingRequiredData, "Email, nome e senha são obrigatórios")
	}

	if err := s.ValidatePasswordStrength(user.PasswordHash); err != nil {
		return nil, err
	}

	user.Email = handleEmail(user.Email)

	userDatabase, err := s.userRepo.GetUserByEmail(ctx, user.Email)
	if err != nil {
		return nil, NewAuthError(ErrDatabaseOperation, apiErrors.ErrPersistence, err.Error())
	}
	if userDatabase != nil {
		return nil, NewAuthError(ErrUserAlreadyExists, apiErrors.ErrUserAlreadyExists, "Email já cadastrado")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.PasswordHash), bcrypt.DefaultCost)
	if err != nil {
		return nil, NewAuthError(err, apiErrors.ErrInternalServer, "Erro ao gerar hash da senha")
	}

	id, err := utils.GenerateID()
	if err != nil {
		return nil, NewAuthError(err, apiErrors.ErrInternalServer, "Erro ao gerar identificador do usuário")
	}

	if user.Role == "" {
		user.Role = domain.RoleSeller
	}
	if !user.Role.Valid() {
		return nil, NewAuthError(ErrInvalidFormat, apiErrors.ErrInvalidFormat, "role deve ser admin ou seller")
	}

	now := s.now()
	user.ID = id
	user.Name = strings.TrimSpace(user.Name)
	user.PasswordHash = string(hashedPassword)
	user.Active = true
	user.CreatedAt = now
	user.UpdatedAt = now

	created, err := s.userRepo.CreateUser(ctx, user)
	if err != nil {
		return nil, NewAuthError(ErrDatabaseOperation, apiErrors.ErrPersistence, "Erro ao criar usuário")
	}

	response := *created
	response.PasswordHash = ""
	return &response, nil
}

func handleEmail(s string) string {
	email := strings.ToLower(s)
	email = strings.TrimSpace(email)
	email = strings.ReplaceAll(email, " ", "")
	return email
}

func (s *Service) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.userRepo.ListUsers(ctx)
	if err != nil {
		return nil, NewAuthError(ErrDatabaseOperation, apiErrors.ErrPersistence, err.Error())
	}

	for _, user := range users {
		user.PasswordHash = ""
	}

	return users, nil
}

func (s *Service) LoginUser(ctx context.Context, email, password string) (string, error) {
	// Validação de entrada
	if email == "" || password == "" {
		return "", NewAuthError(ErrMissingRequiredData, apiErrors.ErrMissingRequiredData, "Email e senha são obrigatórios")
	}

	email = handleEmail(email)

	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return "", NewAuthError(ErrDatabaseOperation, apiErrors.ErrPersistence, "Erro ao consultar usuário")
	}

	if user == nil {
		return "", NewAuthError(ErrUserNotFound, apiErrors.ErrUserNotFound, "Usuário não encontrado")
	}

	if !user.Active {
		return "", NewUserAuthError(ErrUserDisabled, apiErrors.ErrUserDisabled, user.ID, "Conta desativada")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", NewUserAuthError(ErrInvalidCredentials, apiErrors.ErrInvalidCredentials, user.ID, "Senha incorreta")
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return "", NewAuthError(err, apiErrors.ErrInternalServer, "Erro ao gerar token de autenticação")
	}

	logrus.WithField("user_id", user.ID).Info("Login realizado")

	return token, nil
}

func (s *Service) GetUserProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		logrus.Error(err)
		return nil, NewUserAuthError(ErrDatabaseOperation, apiErrors.ErrPersistence, userID, err.Error())
	}
	if user == nil {
		return nil, NewUserAuthError(ErrUserNotFound, apiErrors.ErrUserNotFound, userID, "")
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *Service) generateJWT(user *domain.User) (string, error) {
	now := s.now()

	claims := domain.Claims{
		UserID:     user.ID,
		UserName:   user.Name,
		UserEmail:  user.Email,
		UserRole:   user.Role,
		UserActive: user.Active,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.Auth.TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.Auth.Secret))
}

func (s *Service) ValidateToken(tokenString string) (*domain.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &domain.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.Auth.Secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, NewAuthError(ErrExpiredToken, apiErrors.ErrExpiredToken, "")
		}
		return nil, NewAuthError(ErrInvalidToken, apiErrors.ErrInvalidToken, err.Error())
	}

	if claims, ok := token.Claims.(*domain.Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, NewAuthError(ErrInvalidToken, apiErrors.ErrInvalidToken, "")
}

// GenerateStrongPassword gera uma nova senha para o usuário alvo.
// Apenas administradores podem gerar senhas para outros usuários.
func (s *Service) GenerateStrongPassword(ctx context.Context, requestUserID, targetUserID string) (string, error) {
	requestUser, err := s.userRepo.GetUserByID(ctx, requestUserID)
	if err != nil {
		return "", NewUserAuthError(ErrDatabaseOperation, apiErrors.ErrPersistence, requestUserID, err.Error())
	}
	if requestUser == nil {
		return "", NewUserAuthError(ErrUserNotFound, apiErrors.ErrUserNotFound, requestUserID, "usuário solicitante não encontrado")
	}
	if requestUser.Role != domain.RoleAdmin {
		return "", NewUserAuthError(ErrNoAdminPrivileges, apiErrors.ErrInsufficientPrivilege, requestUserID, "")
	}

	targetUser, err := s.userRepo.GetUserByID(ctx, targetUserID)
	if err != nil {
		return "", NewUserAuthError(ErrDatabaseOperation, apiErrors.ErrPersistence, targetUserID, err.Error())
	}
	if targetUser == nil {
		return "", NewUserAuthError(ErrUserNotFound, apiErrors.ErrUserNotFound, targetUserID, "usuário alvo não encontrado")
	}

	newPassword, err := generateStrongPassword(12)
	if err != nil {
		return "", NewAuthError(err, apiErrors.ErrInternalServer, "Erro ao gerar senha")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", NewAuthError(err, apiErrors.ErrInternalServer, "Erro ao gerar hash da senha")
	}

	targetUser.PasswordHash = string(hashedPassword)
	targetUser.UpdatedAt = s.now()
	if err := s.userRepo.UpdateUser(ctx, targetUser); err != nil {
		return "", NewUserAuthError(ErrDatabaseOperation, apiErrors.ErrPersistence, targetUserID, err.Error())
	}

	return newPassword, nil
}

// generateStrongPassword gera uma senha com o comprimento especificado
// incluindo letras maiúsculas, minúsculas, números e caracteres especiais
func generateStrongPassword(length int) (string, error) {
	if length < 8 {
		length = 8
	}

	groups := []string{lowerChars, upperChars, numberChars, specialChars}
	allChars := strings.Join(groups, "")

	password := make([]byte, length)

	// Garante pelo menos um caractere de cada grupo
	for i, group := range groups {
		randomChar, err := getRandomChar(group)
		if err != nil {
			return "", err
		}
		password[i] = randomChar
	}

	for i := len(groups); i < length; i++ {
		randomChar, err := getRandomChar(allChars)
		if err != nil {
			return "", err
		}
		password[i] = randomChar
	}

	// Embaralhar a senha para que os caracteres não fiquem em ordem previsível
	for i := range password {
		j, err := randomInt(int64(len(password)))
		if err != nil {
			return "", err
		}
		password[i], password[j] = password[j], password[i]
	}

	return string(password), nil
}

// getRandomChar retorna um caractere aleatório do conjunto fornecido
func getRandomChar(charset string) (byte, error) {
	n, err := randomInt(int64(len(charset)))
	if err != nil {
		return 0, err
	}
	return charset[n], nil
}

// randomInt gera um número aleatório seguro entre 0 e max-1
func randomInt(max int64) (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(max))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()), nil
}

const (
	lowerChars   = "abcdefghijklmnopqrstuvwxyz"
	upperChars   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	numberChars  = "0123456789"
	specialChars = "!@#$%^&*()-_=+[]{}|;:,.<>?"
)

// ValidatePasswordStrength verifica se a senha atende aos requisitos de segurança
// Senha deve conter pelo menos 8 caracteres, incluindo maiúsculas, minúsculas, números e caracteres especiais
func (s *Service) ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return NewAuthError(ErrWeakPassword, apiErrors.ErrWeakPassword, "a senha deve conter pelo menos 8 caracteres")
	}

	var (
		hasUpper   bool
		hasLower   bool
		hasNumber  bool
		hasSpecial bool
	)

	for _, char := range password {
		switch {
		case strings.ContainsRune(lowerChars, char):
			hasLower = true
		case strings.ContainsRune(upperChars, char):
			hasUpper = true
		case strings.ContainsRune(numberChars, char):
			hasNumber = true
		case strings.ContainsRune(specialChars, char):
			hasSpecial = true
		}
	}

	if !hasUpper {
		return NewAuthError(ErrWeakPassword, apiErrors.ErrWeakPassword, "a senha deve conter pelo menos uma letra maiúscula")
	}
	if !hasLower {
		return NewAuthError(ErrWeakPassword, apiErrors.ErrWeakPassword, "a senha deve conter pelo menos uma letra minúscula")
	}
	if !hasNumber {
		return NewAuthError(ErrWeakPassword, apiErrors.ErrWeakPassword, "a senha deve conter pelo menos um número")
	}
	if !hasSpecial {
		return NewAuthError(ErrWeakPassword, apiErrors.ErrWeakPassword, "a senha deve conter pelo menos um caractere especial")
	}

	return nil
}

// ChangePassword permite que um usuário altere sua própria senha
func (s *Service) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return NewUserAuthError(ErrDatabaseOperation, apiErrors.ErrPersistence, userID, err.Error())
	}
	if user == nil {
		return NewUserAuthError(ErrUserNotFound, apiErrors.ErrUserNotFound, userID, "")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return NewUserAuthError(ErrInvalidCredentials, apiErrors.ErrInvalidCredentials, userID, "senha atual incorreta")
	}

	if currentPassword == newPassword {
		return NewUserAuthError(ErrSamePassword, apiErrors.ErrInvalidRequest, userID, "")
	}

	if err := s.ValidatePasswordStrength(newPassword); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return NewAuthError(err, apiErrors.ErrInternalServer, "Erro ao gerar hash da senha")
	}

	user.PasswordHash = string(hashedPassword)
	user.UpdatedAt = s.now()
	if err := s.userRepo.UpdateUser(ctx, user); err != nil {
		return NewUserAuthError(ErrDatabaseOperation, apiErrors.ErrPersistence, userID, err.Error())
	}

	logrus.WithField("user_id", userID).Info("Senha alterada")

	return nil
}
