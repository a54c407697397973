package main

import (
	"context"
	"time"

	"github.com/leonsilipetar/cadenza/core"
	"github.com/leonsilipetar/cadenza/core/user"
)

// addAdmin updates or creates a user.User carrying all roles.
func (cli *commandLine) addAdmin(uname, email, pwd string) error {
	ctx := context.Background()
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)

	now := time.Now().UTC()
	usr, err := cli.usrRepo.GetUser(ctx, user.GetFilter{UsernameOrEmail: uname})
	if err == user.ErrNotFound {
		usr, err = cli.usrRepo.GetUser(ctx, user.GetFilter{Email: email})
	}
	switch err {
	case nil:
		usr.Roles = user.AllRoles
		usr.UpdatedAt = now
		if err = usr.SetPassword(pwd); err != nil {
			return err
		}
		active := true
		_, err = cli.usrRepo.UpdateUser(ctx, usr, &active)
		return err
	case user.ErrNotFound:
		usr = user.User{
			Username:  uname,
			Email:     email,
			Roles:     user.AllRoles,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err = usr.SetPassword(pwd); err != nil {
			return err
		}
		_, err = cli.usrRepo.CreateUser(ctx, usr)
		return err
	default:
		return err
	}
}
