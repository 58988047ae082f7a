package users

import (
	"context"
	"errors"
	"net/mail"
	"strconv"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/lexikon-app/lexikon/internal/audit"
	"github.com/lexikon-app/lexikon/internal/store"
	"github.com/lexikon-app/lexikon/model"
	"github.com/lexikon-app/lexikon/params"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	IP        string
	UserAgent string
}

// verifyClaim binds a verification token to the account it activates.
type verifyClaim struct {
	UserID uint   `json:"userId"`
	Email  string `json:"email"`
}

type UserService struct {
	userRepo     UserRepository
	verifyTokens store.Store[verifyClaim]
	issuedTokens store.Store[string] // userID key → last issued token
	auditor      audit.Recorder
}

func (s *UserService) GetUserByID(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrUserNotFound
	}
	user, err := s.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

// Register creates an unverified account and returns the verification token
// to embed in the activation link.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*model.User, string, error) {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := model.User{
		Email:     input.Email,
		Password:  string(passwordHash),
		FirstName: input.FirstName,
		LastName:  input.LastName,
	}

	var mysqlErr *mysql.MySQLError
	if err := s.userRepo.Create(ctx, &user); err != nil {
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return nil, "", ErrEmailRegistered
		}
		return nil, "", err
	}

	token, err := s.issueVerifyToken(ctx, &user)
	if err != nil {
		return nil, "", err
	}

	audit.RecordUserCreated(ctx, s.auditor, audit.UserRecord{
		UserID:    user.ID,
		Email:     user.Email,
		IP:        input.IP,
		UserAgent: input.UserAgent,
	})
	return &user, token, nil
}

// issueVerifyToken mints a fresh verification token, revoking any token
// previously issued for the same user.
func (s *UserService) issueVerifyToken(ctx context.Context, user *model.User) (string, error) {
	if prev, err := s.issuedTokens.Remove(ctx, formatUserKey(user.ID)); err == nil && prev != nil {
		s.verifyTokens.Delete(ctx, *prev)
	}

	token := uuid.NewString()
	claim := verifyClaim{UserID: user.ID, Email: user.Email}
	if err := s.verifyTokens.Set(ctx, token, claim, params.EmailVerifyTokenTTL); err != nil {
		return "", err
	}
	if err := s.issuedTokens.Set(ctx, formatUserKey(user.ID), token, params.EmailVerifyTokenTTL); err != nil {
		return "", err
	}
	return token, nil
}

// ResendVerification reissues the activation token for an unverified account.
func (s *UserService) ResendVerification(ctx context.Context, email string) (*model.User, string, error) {
	user, err := s.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if user.IsVerified {
		return nil, "", ErrAlreadyVerified
	}
	token, err := s.issueVerifyToken(ctx, user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// VerifyEmail consumes a verification token and flips IsVerified.
func (s *UserService) VerifyEmail(ctx context.Context, token string) (*model.User, error) {
	claim, err := s.verifyTokens.Remove(ctx, token)
	if err != nil {
		return nil, err
	}
	if claim == nil {
		return nil, ErrInvalidVerificationToken
	}
	s.issuedTokens.Delete(ctx, formatUserKey(claim.UserID))

	user, err := s.GetUserByID(ctx, claim.UserID)
	if err != nil {
		return nil, err
	}
	if !user.IsVerified {
		user.IsVerified = true
		if err := s.userRepo.Save(ctx, user); err != nil {
			return nil, err
		}
	}
	return user, nil
}

// UpdatePassword re-authenticates with the current password before replacing
// the hash. Every attempt is audited, wrong current password included.
func (s *UserService) UpdatePassword(ctx context.Context, userID uint, currentPassword, newPassword, ip, userAgent string) error {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(currentPassword)) != nil {
		audit.RecordPasswordChanged(ctx, s.auditor, audit.PasswordRecord{
			UserID:    user.ID,
			Email:     user.Email,
			IP:        ip,
			UserAgent: userAgent,
			Success:   false,
			Reason:    "current password mismatch",
		})
		return ErrIncorrectPassword
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(passwordHash)
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}

	audit.RecordPasswordChanged(ctx, s.auditor, audit.PasswordRecord{
		UserID:    user.ID,
		Email:     user.Email,
		IP:        ip,
		UserAgent: userAgent,
		Success:   true,
	})
	return nil
}

type ProfileUpdate struct {
	FirstName *string
	LastName  *string
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uint, update ProfileUpdate, ip, userAgent string) (*model.User, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var changed []string
	if update.FirstName != nil && *update.FirstName != user.FirstName {
		user.FirstName = *update.FirstName
		changed = append(changed, "firstName")
	}
	if update.LastName != nil && *update.LastName != user.LastName {
		user.LastName = *update.LastName
		changed = append(changed, "lastName")
	}
	if len(changed) == 0 {
		return user, nil
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	audit.RecordProfileUpdated(ctx, s.auditor, audit.ProfileRecord{
		UserID:    user.ID,
		Email:     user.Email,
		Fields:    changed,
		IP:        ip,
		UserAgent: userAgent,
	})
	return user, nil
}

// DeleteUser removes an account. byAdmin selects the admin-initiated audit
// action variant.
func (s *UserService) DeleteUser(ctx context.Context, userID uint, byAdmin bool, ip, userAgent string) error {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return err
	}
	audit.RecordUserDeleted(ctx, s.auditor, audit.UserRecord{
		UserID:    user.ID,
		Email:     user.Email,
		ByAdmin:   byAdmin,
		IP:        ip,
		UserAgent: userAgent,
	})
	return nil
}

func formatUserKey(userID uint) string {
	return strconv.FormatUint(uint64(userID), 10)
}

func NewUserService(userRepo UserRepository, storage store.Storage, auditor audit.Recorder) *UserService {
	return &UserService{
		userRepo:     userRepo,
		verifyTokens: store.New[verifyClaim](storage, params.VerifyTokenKeyPrefix),
		issuedTokens: store.New[string](storage, params.VerifyTokenKeyPrefix+"u:"),
		auditor:      auditor,
	}
}
