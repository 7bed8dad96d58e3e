package tester

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/emrgen/linker/internal/store"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/sirupsen/logrus"
)

// PostgresEnv opts a test run into the docker backed postgres stores.
const PostgresEnv = "LINKER_TEST_POSTGRES"

// PostgresStore starts a throwaway postgres container and returns a migrated
// store over it. The test is skipped unless PostgresEnv is set.
func PostgresStore(t testing.TB) *store.GormStore {
	t.Helper()

	if os.Getenv(PostgresEnv) == "" {
		t.Skipf("set %s to run against postgres", PostgresEnv)
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("could not construct pool: %v", err)
	}

	// uses pool to try to connect to Docker
	if err := pool.Client.Ping(); err != nil {
		t.Fatalf("could not connect to docker: %v", err)
	}

	db, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=linker",
			"POSTGRES_PASSWORD=linker",
			"POSTGRES_DB=linker",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("could not start postgres: %v", err)
	}
	t.Cleanup(func() {
		if err := pool.Purge(db); err != nil {
			logrus.Errorf("could not purge postgres: %v", err)
		}
	})

	dsn := fmt.Sprintf("postgres://linker:linker@%s/linker?sslmode=disable", db.GetHostPort("5432/tcp"))

	var s *store.GormStore
	pool.MaxWait = time.Minute
	err = pool.Retry(func() error {
		gdb, err := store.Open(dsn)
		if err != nil {
			return err
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.Ping(); err != nil {
			_ = sqlDB.Close()
			return err
		}
		s = store.NewGormStore(gdb)
		t.Cleanup(func() {
			_ = sqlDB.Close()
		})
		return nil
	})
	if err != nil {
		t.Fatalf("could not connect to postgres: %v", err)
	}

	if err := s.Migrate(); err != nil {
		t.Fatalf("migrate postgres: %v", err)
	}

	return s
}
