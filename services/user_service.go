package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/kendall-kelly/artisan-portal-api/models"
)

// CreateUserInput is the data required to create an account
type CreateUserInput struct {
	Name        string      `json:"name" validate:"required"`
	Email       string      `json:"email" validate:"required,email"`
	Password    string      `json:"password" validate:"required,min=6"`
	Role        models.Role `json:"role" validate:"required"`
	CompanyName *string     `json:"company_name"`
	Specialty   *string     `json:"specialty"`
	Address     *string     `json:"address"`
	Lat         *float64    `json:"lat"`
	Lng         *float64    `json:"lng"`
}

// UpdateUserInput carries the fields to change. Empty or nil fields keep their stored value.
type UpdateUserInput struct {
	Name        string      `json:"name"`
	Email       string      `json:"email" validate:"omitempty,email"`
	Password    string      `json:"password" validate:"omitempty,min=6"`
	Role        models.Role `json:"role"`
	CompanyName *string     `json:"company_name"`
	Specialty   *string     `json:"specialty"`
	Address     *string     `json:"address"`
	Lat         *float64    `json:"lat"`
	Lng         *float64    `json:"lng"`
	IsOnboarded *bool       `json:"is_onboarded"`
}

// ProfileInput is what a user fills in during onboarding
type ProfileInput struct {
	CompanyName *string `json:"company_name"`
	Address     *string `json:"address"`
	Specialty   *string `json:"specialty"`
}

// UserService manages portal accounts
type UserService struct {
	users      UserStore
	documents  DocumentStore
	compliance *ComplianceService
	uploads    *UploadService
}

// NewUserService creates the service
func NewUserService(users UserStore, documents DocumentStore, compliance *ComplianceService, uploads *UploadService) *UserService {
	return &UserService{users: users, documents: documents, compliance: compliance, uploads: uploads}
}

// withLiveStatus replaces the stored documents_status of artisans with a freshly computed verdict
func (s *UserService) withLiveStatus(ctx context.Context, users []models.User) ([]models.User, error) {
	var artisanIDs []string
	for _, u := range users {
		if u.Role == models.RoleArtisan {
			artisanIDs = append(artisanIDs, u.ID)
		}
	}
	verdicts, err := s.compliance.AggregateStatuses(ctx, artisanIDs)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if verdict, ok := verdicts[users[i].ID]; ok {
			v := verdict
			users[i].DocumentsStatus = &v
		}
	}
	return users, nil
}

// ListUsers returns every user ordered by role then name
func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return s.withLiveStatus(ctx, users)
}

// ListArtisans returns artisans ordered by name
func (s *UserService) ListArtisans(ctx context.Context) ([]models.User, error) {
	users, err := s.users.ListByRole(ctx, models.RoleArtisan)
	if err != nil {
		return nil, fmt.Errorf("failed to list artisans: %w", err)
	}
	return s.withLiveStatus(ctx, users)
}

// ListClients returns clients ordered by name
func (s *UserService) ListClients(ctx context.Context) ([]models.User, error) {
	users, err := s.users.ListByRole(ctx, models.RoleClient)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return users, nil
}

// GetUser returns one user
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, notFound("USER_NOT_FOUND", "User not found")
	}
	if user.Role == models.RoleArtisan {
		verdict, err := s.compliance.AggregateStatus(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		user.DocumentsStatus = &verdict
	}
	return user, nil
}

func emailConflict() error {
	return &ConflictError{Code: "EMAIL_EXISTS", Message: "A user with this email already exists"}
}

func invalidRole(role models.Role) error {
	return &ValidationError{Code: "INVALID_ROLE", Message: "Invalid role: " + string(role) + " (expected ADMIN, ARTISAN or CLIENT)"}
}

// CreateUser creates an account. Admins start onboarded.
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*models.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if !input.Role.IsValid() {
		return nil, invalidRole(input.Role)
	}

	taken, err := s.users.EmailTaken(ctx, input.Email, "")
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, emailConflict()
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         input.Role,
		IsOnboarded:  input.Role == models.RoleAdmin,
		CompanyName:  input.CompanyName,
		Specialty:    input.Specialty,
		Address:      input.Address,
		Lat:          input.Lat,
		Lng:          input.Lng,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, emailConflict()
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// UpdateUser merges input into the stored user: only supplied, non-empty fields change
func (s *UserService) UpdateUser(ctx context.Context, id string, input UpdateUserInput) (*models.User, error) {
	existing, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if existing == nil {
		return nil, notFound("USER_NOT_FOUND", "User not found")
	}

	input.Email = strings.TrimSpace(input.Email)
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if input.Role != "" && !input.Role.IsValid() {
		return nil, invalidRole(input.Role)
	}

	if input.Email != "" {
		taken, err := s.users.EmailTaken(ctx, input.Email, id)
		if err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if taken {
			return nil, &ConflictError{Code: "EMAIL_EXISTS", Message: "Another user already uses this email"}
		}
	}

	fields := map[string]any{}
	setString := func(column, value string) {
		if strings.TrimSpace(value) != "" {
			fields[column] = value
		}
	}
	setOptional := func(column string, value *string) {
		if value != nil && strings.TrimSpace(*value) != "" {
			fields[column] = *value
		}
	}

	setString("name", input.Name)
	setString("email", input.Email)
	setString("role", string(input.Role))
	setOptional("company_name", input.CompanyName)
	setOptional("specialty", input.Specialty)
	setOptional("address", input.Address)
	if input.Lat != nil {
		fields["lat"] = *input.Lat
	}
	if input.Lng != nil {
		fields["lng"] = *input.Lng
	}
	if input.IsOnboarded != nil {
		fields["is_onboarded"] = *input.IsOnboarded
	}
	if input.Password != "" {
		hash, err := HashPassword(input.Password)
		if err != nil {
			return nil, err
		}
		fields["password_hash"] = hash
	}

	if err := s.users.Update(ctx, id, fields); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, emailConflict()
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return s.GetUser(ctx, id)
}

// UpdateProfile merges onboarding fields and marks the user onboarded
func (s *UserService) UpdateProfile(ctx context.Context, userID string, input ProfileInput) (*models.User, error) {
	existing, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if existing == nil {
		return nil, notFound("USER_NOT_FOUND", "User not found")
	}

	fields := map[string]any{"is_onboarded": true}
	if input.CompanyName != nil && strings.TrimSpace(*input.CompanyName) != "" {
		fields["company_name"] = *input.CompanyName
	}
	if input.Address != nil && strings.TrimSpace(*input.Address) != "" {
		fields["address"] = *input.Address
	}
	if input.Specialty != nil && strings.TrimSpace(*input.Specialty) != "" {
		fields["specialty"] = *input.Specialty
	}

	if err := s.users.Update(ctx, userID, fields); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return s.GetUser(ctx, userID)
}

// DeleteUser removes a user with their project links, invoices and documents.
// Clients who still own projects cannot be deleted.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	existing, err := s.users.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	if existing == nil {
		return notFound("USER_NOT_FOUND", "User not found")
	}

	owns, err := s.users.OwnsProjects(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check projects: %w", err)
	}
	if owns {
		return &ConflictError{Code: "USER_OWNS_PROJECTS", Message: "User is the client of existing projects; delete or reassign them first"}
	}

	documents, err := s.documents.ListForArtisan(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	for _, doc := range documents {
		if doc.HasFile() {
			s.uploads.Remove(ctx, DocumentsDir, *doc.FileName)
		}
	}
	return nil
}
