package internal

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/taskroster/taskroster/internal/activity"
	activityrepo "github.com/taskroster/taskroster/internal/activity/repositoryimpl"
	"github.com/taskroster/taskroster/internal/assignment"
	assignmentrepo "github.com/taskroster/taskroster/internal/assignment/repositoryimpl"
	"github.com/taskroster/taskroster/internal/auth"
	"github.com/taskroster/taskroster/internal/config"
	"github.com/taskroster/taskroster/internal/database"
	"github.com/taskroster/taskroster/internal/eventbus"
	"github.com/taskroster/taskroster/internal/permission"
	permissionrepo "github.com/taskroster/taskroster/internal/permission/repositoryimpl"
	"github.com/taskroster/taskroster/internal/task"
	taskrepo "github.com/taskroster/taskroster/internal/task/repositoryimpl"
	"github.com/taskroster/taskroster/internal/user"
	userrepo "github.com/taskroster/taskroster/internal/user/repositoryimpl"
	"github.com/taskroster/taskroster/pkg/storage"
)

// App is the wired server together with its background workers.
type App struct {
	Server   *Server
	Recorder *activity.Recorder
}

func NewApp(env *config.Env, db *gorm.DB, store storage.Storage, redisClient *redis.Client) *App {
	bus := eventbus.New()
	tx := database.NewTransactor(db)

	// Repositories
	userRepo := userrepo.NewGormRepository(db)
	permissionRepo := permissionrepo.NewGormRepository(db)
	taskRepo := taskrepo.NewGormRepository(db)
	assignmentRepo := assignmentrepo.NewGormRepository(db)
	activityRepo := activityrepo.NewYAMLRepository(store)

	// Services
	permissionService := permission.NewService(permissionRepo, userRepo)
	taskService := task.NewService(taskRepo, tx, bus)
	assignmentService := assignment.NewService(assignmentRepo, taskRepo, userRepo, tx, bus)

	// Authentication
	issuer := auth.NewTokenIssuer(&env.AuthEnv)
	authenticator := auth.NewAuthenticator(issuer, userRepo, permissionService)
	authServer := auth.NewServer(userRepo, issuer, auth.NewRedisRefreshStore(redisClient))

	srv := NewServer(
		env,
		db,
		authenticator,
		authServer,
		task.NewServer(taskService),
		assignment.NewServer(assignmentService),
		user.NewServer(userRepo),
		permission.NewServer(permissionService),
		activity.NewServer(activityRepo),
	)

	return &App{
		Server:   srv,
		Recorder: activity.NewRecorder(activityRepo, bus),
	}
}
