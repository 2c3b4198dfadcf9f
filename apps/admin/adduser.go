package main

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/phoenixdev100/tap/core"
	"github.com/phoenixdev100/tap/core/user"
)

// addUser updates or creates a user.User
func (cli *commandLine) addUser(uname, email, pwd string, isAdmin bool) error {
	ctx := context.Background()
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)

	usr, err := cli.usrRepo.GetUserByUsernameOrEmail(ctx, uname)
	if err != nil {
		if errors.Cause(err) != user.ErrNotFound {
			return err
		}
		if usr, err = cli.usrRepo.GetUserByUsernameOrEmail(ctx, email); err != nil {
			if errors.Cause(err) != user.ErrNotFound {
				return err
			}
			usr = user.User{
				Username:  uname,
				Email:     email,
				Role:      user.RoleStudent,
				CreatedAt: time.Now().UTC(),
			}
		}
	}
	if isAdmin {
		usr.Role = user.RoleAdmin
	}
	usr.IsActive = true
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}
	usr.UpdatedAt = time.Now().UTC()
	if _, err := cli.usrRepo.UpdateOrCreateUser(ctx, usr); err != nil {
		return err
	}
	return nil
}
