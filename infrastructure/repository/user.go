package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"github.com/vfg2006/tire-sales-api/infrastructure/storage"
	"github.com/vfg2006/tire-sales-api/internal/domain"
)

const usersDocumentKey = "users"

var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
}

type usersDocument struct {
	Users []domain.User `json:"users"`
}

type userRepository struct {
	store storage.DocumentStore
	mu    sync.Mutex
}

func NewUserRepository(store storage.DocumentStore) UserRepository {
	return &userRepository{
		store: store,
	}
}

func (r *userRepository) load(ctx context.Context) (*usersDocument, error) {
	body, err := r.store.Get(ctx, usersDocumentKey)
	if errors.Is(err, storage.ErrDocumentNotFound) {
		return &usersDocument{Users: []domain.User{}}, nil
	}
	if err != nil {
		return nil, err
	}

	var document usersDocument
	if err := json.Unmarshal(body, &document); err != nil {
		return nil, errors.Wrapf(ErrCorruptDocument, "users: %v", err)
	}

	return &document, nil
}

func (r *userRepository) save(ctx context.Context, document *usersDocument) error {
	body, err := json.MarshalIndent(document, "", "  ")
	if err != nil {
		return errors.Wrap(err, "erro ao serializar usuários")
	}

	return r.store.Put(ctx, usersDocumentKey, body)
}

func (r *userRepository) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	document, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	document.Users = append(document.Users, *user)
	if err := r.save(ctx, document); err != nil {
		return nil, err
	}

	return user, nil
}

func (r *userRepository) UpdateUser(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	document, err := r.load(ctx)
	if err != nil {
		return err
	}

	for i := range document.Users {
		if document.Users[i].ID == user.ID {
			document.Users[i] = *user
			return r.save(ctx, document)
		}
	}

	return ErrUserNotFound
}

// GetUserByEmail retorna (nil, nil) quando o email não está cadastrado
func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	document, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	for _, user := range document.Users {
		if user.Email == email {
			found := user
			return &found, nil
		}
	}

	return nil, nil
}

// GetUserByID retorna (nil, nil) quando o usuário não existe
func (r *userRepository) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	document, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	for _, user := range document.Users {
		if user.ID == userID {
			found := user
			return &found, nil
		}
	}

	return nil, nil
}

func (r *userRepository) ListUsers(ctx context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	document, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	users := make([]*domain.User, 0, len(document.Users))
	for i := range document.Users {
		user := document.Users[i]
		users = append(users, &user)
	}

	sort.Slice(users, func(i, j int) bool {
		return users[i].Name < users[j].Name
	})

	return users, nil
}
