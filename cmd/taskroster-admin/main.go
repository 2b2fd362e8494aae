package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/alecthomas/kingpin/v2"
	"github.com/fatih/color"
	"gorm.io/gorm"

	"github.com/taskroster/taskroster/internal/config"
	"github.com/taskroster/taskroster/internal/database"
	"github.com/taskroster/taskroster/internal/permission"
	permissionrepo "github.com/taskroster/taskroster/internal/permission/repositoryimpl"
	"github.com/taskroster/taskroster/internal/schema"
	userrepo "github.com/taskroster/taskroster/internal/user/repositoryimpl"
)

var (
	app = kingpin.New("taskroster-admin", "Administration tool for the taskroster database")

	migrateCmd = app.Command("migrate", "Create or update tables and seed the default permissions")

	permissionsCmd = app.Command("permissions", "List registered permissions")

	grantCmd      = app.Command("grant", "Grant a permission to a user")
	grantEmail    = grantCmd.Flag("email", "Email of the user").Required().String()
	grantCodename = grantCmd.Flag("codename", "Permission codename").Required().String()

	revokeCmd      = app.Command("revoke", "Revoke a permission from a user")
	revokeEmail    = revokeCmd.Flag("email", "Email of the user").Required().String()
	revokeCodename = revokeCmd.Flag("codename", "Permission codename").Required().String()
)

func main() {
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, command); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, command string) error {
	env, err := config.LoadDatabaseEnv()
	if err != nil {
		return err
	}
	db, err := database.Open(env)
	if err != nil {
		return err
	}
	defer database.Close(db)

	switch command {
	case migrateCmd.FullCommand():
		return migrate(ctx, db)
	case permissionsCmd.FullCommand():
		return listPermissions(ctx, db)
	case grantCmd.FullCommand():
		return setGrant(ctx, db, *grantEmail, *grantCodename, true)
	case revokeCmd.FullCommand():
		return setGrant(ctx, db, *revokeEmail, *revokeCodename, false)
	}
	return fmt.Errorf("unknown command %q", command)
}

func migrate(ctx context.Context, db *gorm.DB) error {
	if err := schema.Migrate(ctx, db); err != nil {
		return err
	}
	if err := permission.Seed(ctx, permissionrepo.NewGormRepository(db)); err != nil {
		return err
	}
	color.Green("Database migrated")
	return nil
}

func listPermissions(ctx context.Context, db *gorm.DB) error {
	perms, err := permissionrepo.NewGormRepository(db).List(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CODENAME\tNAME\tDESCRIPTION")
	for _, p := range perms {
		fmt.Fprintf(w, "%s\t%s\t%s\n", p.Codename, p.Name, p.Description)
	}
	return w.Flush()
}

func setGrant(ctx context.Context, db *gorm.DB, email, codename string, grant bool) error {
	u, err := userrepo.NewGormRepository(db).GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return err
	}
	repo := permissionrepo.NewGormRepository(db)
	p, err := repo.GetByCodename(ctx, codename)
	if err != nil {
		return err
	}
	if grant {
		if err := repo.Grant(ctx, u.ID, p.ID); err != nil {
			return err
		}
		color.Green("Granted %s to %s", p.Codename, u.Email)
		return nil
	}
	if err := repo.Revoke(ctx, u.ID, p.ID); err != nil {
		return err
	}
	color.Yellow("Revoked %s from %s", p.Codename, u.Email)
	return nil
}
