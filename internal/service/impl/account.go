package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Wididit/Wididit-server/internal/db"
	"github.com/Wididit/Wididit-server/internal/domain"
	"github.com/Wididit/Wididit-server/internal/service"
	"github.com/Wididit/Wididit-server/internal/utils"
	"github.com/Wididit/Wididit-server/internal/validate"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// AuthenticateUser confirms the user's identity. user is either the username or the email address of the
// account.
func (s *AppService) AuthenticateUser(ctx context.Context, user, password string) (a domain.Account, authenticated bool, err error) {
	user = strings.ToLower(strings.TrimSpace(user))

	if validate.Email(user) == nil {
		a, err = s.DB.GetAccountByEmail(ctx, user)
	} else if validate.Username(user) == nil {
		a, err = s.DB.GetAccountByUsername(ctx, user)
	} else {
		return a, false, fmt.Errorf("%w: invalid username or email", service.ErrInvalidInput)
	}

	if errors.Is(err, db.ErrNotFound) {
		return domain.Account{}, false, nil
	}
	if err != nil {
		return domain.Account{}, false, err
	}

	if !a.Active {
		return a, false, nil
	}
	authenticated = bcrypt.CompareHashAndPassword([]byte(a.Password), []byte(password)) == nil
	return a, authenticated, nil
}

func (s *AppService) CallerOf(ctx context.Context, personID int64) (service.Caller, error) {
	p, err := s.DB.GetPersonByID(ctx, personID)
	if err != nil {
		return service.Caller{}, err
	}

	a, err := s.DB.GetAccountByPerson(ctx, personID)
	if errors.Is(err, db.ErrNotFound) {
		return service.Caller{}, fmt.Errorf("%w: %s has no account here", service.ErrUnauthorized, p.UserID())
	}
	if err != nil {
		return service.Caller{}, err
	}
	if !a.Active {
		return service.Caller{}, fmt.Errorf("%w: account disabled", service.ErrUnauthorized)
	}
	return service.Caller{Person: p, Account: a}, nil
}

func (s *AppService) Register(ctx context.Context, a service.NewAccount) (domain.Person, error) {
	if !s.Config.RegistrationOpen {
		return domain.Person{}, fmt.Errorf("%w: registration is closed", service.ErrForbidden)
	}
	return s.CreateAccount(ctx, a)
}

func (s *AppService) CreateAccount(ctx context.Context, a service.NewAccount) (domain.Person, error) {
	username := strings.ToLower(strings.TrimSpace(a.Username))
	email := strings.ToLower(strings.TrimSpace(a.Email))

	err := errors.Join(validate.SignUpForm(username, a.Password, email), validate.Biography(a.Biography))
	if err != nil {
		return domain.Person{}, invalid(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(a.Password), BcryptCost)
	if err != nil {
		return domain.Person{}, err
	}

	pub, priv, err := utils.GenerateKeysPem(s.Config.RsaKeySize)
	if err != nil {
		return domain.Person{}, err
	}

	apId := s.Config.Url.JoinPath("people", username)
	p, err := s.DB.InsertAccount(ctx, domain.Person{
		Username:  username,
		Hostname:  s.Config.Hostname,
		Biography: a.Biography,
		ApId:      apId,
		Inbox:     apId.JoinPath("inbox"),
		PublicKey: pub,
	}, priv, domain.Account{
		Email:    email,
		Password: string(hash),
		Admin:    a.Admin,
		Active:   true,
	})
	if err != nil {
		return domain.Person{}, conflict(err, "username or email already taken")
	}

	log.Info().Str("person", p.UserID().String()).Bool("admin", a.Admin).Msg("account created")
	return p, nil
}

func (s *AppService) UpdatePerson(ctx context.Context, caller service.Caller, userid string, u service.PersonUpdate) (domain.Person, error) {
	if err := requireCaller(caller); err != nil {
		return domain.Person{}, err
	}

	p, err := s.ResolvePerson(ctx, userid)
	if err != nil {
		return domain.Person{}, err
	}
	if p.ID != caller.Person.ID {
		return domain.Person{}, fmt.Errorf("%w: only %s may change this profile", service.ErrForbidden, p.UserID())
	}

	if u.Biography != nil {
		if err = validate.Biography(*u.Biography); err != nil {
			return domain.Person{}, invalid(err)
		}
	}
	if u.Password != nil {
		if err = validate.Password(*u.Password); err != nil {
			return domain.Person{}, invalid(err)
		}
	}

	if u.Biography != nil {
		if err = s.DB.UpdateBiography(ctx, p.ID, *u.Biography); err != nil {
			return domain.Person{}, err
		}
	}
	if u.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*u.Password), BcryptCost)
		if err != nil {
			return domain.Person{}, err
		}
		if err = s.DB.UpdatePassword(ctx, caller.Account.ID, string(hash)); err != nil {
			return domain.Person{}, err
		}
	}

	return s.DB.GetPersonByID(ctx, p.ID)
}
