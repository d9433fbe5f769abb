package resolvers

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/nexus-social/backend/internal/graphql"
	"github.com/nexus-social/backend/internal/models"
)

const tokenTTL = 72 * time.Hour

type registerUserArgs struct {
	Username  string `json:"username" validate:"required,min=3,max=30,alphanum"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	FirstName string `json:"firstName" validate:"max=50"`
	LastName  string `json:"lastName" validate:"max=50"`
}

// AuthPayload is the result of registerUser and loginUser.
type AuthPayload struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (r *Resolver) opRegisterUser() *graphql.Operation {
	return &graphql.Operation{
		Name:           "registerUser",
		AllowAnonymous: true,
		NewArgs:        func() any { return &registerUserArgs{} },
		Resolve: func(ctx context.Context, _ graphql.Principal, args any) (any, error) {
			a := args.(*registerUserArgs)

			taken, err := r.users.ExistsByUsername(ctx, a.Username)
			if err != nil {
				return nil, wrapDB(err)
			}
			if taken {
				return nil, graphql.NewValidationError("username", "username is already taken")
			}
			taken, err = r.users.ExistsByEmail(ctx, a.Email)
			if err != nil {
				return nil, wrapDB(err)
			}
			if taken {
				return nil, graphql.NewValidationError("email", "email is already registered")
			}

			hashed, err := bcrypt.GenerateFromPassword([]byte(a.Password), bcrypt.DefaultCost)
			if err != nil {
				return nil, graphql.NewInternalError(err)
			}

			user := &models.User{
				Username:  a.Username,
				Email:     a.Email,
				Password:  string(hashed),
				FirstName: a.FirstName,
				LastName:  a.LastName,
			}
			if err := r.users.Create(ctx, user); err != nil {
				// the unique indexes backstop the pre-checks under races
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return nil, graphql.NewValidationError("username", "username or email is already taken")
				}
				return nil, wrapDB(err)
			}

			token, err := graphql.IssueToken(r.cfg.JWTSecret, user.ID, user.Email, user.IsStaff, tokenTTL)
			if err != nil {
				return nil, graphql.NewInternalError(err)
			}
			return &AuthPayload{Token: token, User: user}, nil
		},
	}
}

type loginUserArgs struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// loginUser checks the credential and issues a signed token. Unknown
// email and wrong password produce the same error so the endpoint does
// not leak which accounts exist.
func (r *Resolver) opLoginUser() *graphql.Operation {
	return &graphql.Operation{
		Name:           "loginUser",
		AllowAnonymous: true,
		NewArgs:        func() any { return &loginUserArgs{} },
		Resolve: func(ctx context.Context, _ graphql.Principal, args any) (any, error) {
			a := args.(*loginUserArgs)

			user, err := r.users.GetByEmail(ctx, a.Email)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, graphql.NewAuthRequired()
				}
				return nil, wrapDB(err)
			}
			if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(a.Password)); err != nil {
				return nil, graphql.NewAuthRequired()
			}

			token, err := graphql.IssueToken(r.cfg.JWTSecret, user.ID, user.Email, user.IsStaff, tokenTTL)
			if err != nil {
				return nil, graphql.NewInternalError(err)
			}
			return &AuthPayload{Token: token, User: user}, nil
		},
	}
}

type updateProfileArgs struct {
	FirstName *string `json:"firstName" validate:"omitempty,max=50"`
	LastName  *string `json:"lastName" validate:"omitempty,max=50"`
	Bio       *string `json:"bio" validate:"omitempty,max=500"`
	Location  *string `json:"location" validate:"omitempty,max=100"`
	Website   *string `json:"website" validate:"omitempty,url,max=200"`
}

// UserPayload is the result of updateProfile.
type UserPayload struct {
	User    *models.User `json:"user"`
	Success bool         `json:"success"`
}

// updateProfile applies only the fields named here. Counters, flags and
// credentials can never be written through this operation.
func (r *Resolver) opUpdateProfile() *graphql.Operation {
	return &graphql.Operation{
		Name:    "updateProfile",
		NewArgs: func() any { return &updateProfileArgs{} },
		Resolve: func(ctx context.Context, p graphql.Principal, args any) (any, error) {
			a := args.(*updateProfileArgs)

			user, err := fetchUser(r.db.WithContext(ctx), p.UserID)
			if err != nil {
				return nil, err
			}
			if a.FirstName != nil {
				user.FirstName = *a.FirstName
			}
			if a.LastName != nil {
				user.LastName = *a.LastName
			}
			if a.Bio != nil {
				user.Bio = *a.Bio
			}
			if a.Location != nil {
				user.Location = *a.Location
			}
			if a.Website != nil {
				user.Website = *a.Website
			}
			if err := r.users.Update(ctx, user); err != nil {
				return nil, wrapDB(err)
			}
			return &UserPayload{User: user, Success: true}, nil
		},
	}
}

func (r *Resolver) opMe() *graphql.Operation {
	return &graphql.Operation{
		Name: "me",
		Resolve: func(ctx context.Context, p graphql.Principal, _ any) (any, error) {
			return fetchUser(r.db.WithContext(ctx), p.UserID)
		},
	}
}

type userArgs struct {
	UserID uint `json:"userId" validate:"required,gt=0"`
}

func (r *Resolver) opUser() *graphql.Operation {
	return &graphql.Operation{
		Name:           "user",
		AllowAnonymous: true,
		NewArgs:        func() any { return &userArgs{} },
		Resolve: func(ctx context.Context, _ graphql.Principal, args any) (any, error) {
			a := args.(*userArgs)
			return fetchUser(r.db.WithContext(ctx), a.UserID)
		},
	}
}

type userByUsernameArgs struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
}

func (r *Resolver) opUserByUsername() *graphql.Operation {
	return &graphql.Operation{
		Name:           "userByUsername",
		AllowAnonymous: true,
		NewArgs:        func() any { return &userByUsernameArgs{} },
		Resolve: func(ctx context.Context, _ graphql.Principal, args any) (any, error) {
			a := args.(*userByUsernameArgs)
			user, err := r.users.GetByUsername(ctx, a.Username)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, graphql.NewNotFound("user")
				}
				return nil, wrapDB(err)
			}
			return user, nil
		},
	}
}

type searchUsersArgs struct {
	Query string `json:"query" validate:"required,min=1,max=100"`
	First int    `json:"first" validate:"omitempty,gt=0,max=50"`
}

func (r *Resolver) opSearchUsers() *graphql.Operation {
	return &graphql.Operation{
		Name:           "searchUsers",
		AllowAnonymous: true,
		NewArgs:        func() any { return &searchUsersArgs{} },
		Resolve: func(ctx context.Context, _ graphql.Principal, args any) (any, error) {
			a := args.(*searchUsersArgs)
			if a.First == 0 {
				a.First = 20
			}
			users, err := r.users.Search(ctx, a.Query, a.First)
			if err != nil {
				return nil, wrapDB(err)
			}
			return users, nil
		},
	}
}
