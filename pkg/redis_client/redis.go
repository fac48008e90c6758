package redis_client

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/travigo/driverportal/pkg/util"
)

var Client *redis.Client

const defaultConnectionPassword = ""
const defaultDatabase = 0

// Configured reports whether a Redis address has been provided. Without one the portal
// caches feeds in memory.
func Configured() bool {
	return util.GetEnvironmentVariables()["DRIVERPORTAL_REDIS_ADDRESS"] != ""
}

func Connect(ctx context.Context) error {
	env := util.GetEnvironmentVariables()

	address := env["DRIVERPORTAL_REDIS_ADDRESS"]
	password := defaultConnectionPassword
	database := defaultDatabase

	if env["DRIVERPORTAL_REDIS_PASSWORD"] != "" {
		password = env["DRIVERPORTAL_REDIS_PASSWORD"]
	}

	if env["DRIVERPORTAL_REDIS_DATABASE"] != "" {
		if n, err := strconv.Atoi(env["DRIVERPORTAL_REDIS_DATABASE"]); err == nil {
			database = n
		} else {
			return err
		}
	}

	Client = redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       database,
	})

	if err := Client.Ping(ctx).Err(); err != nil {
		return err
	}

	log.Info().Str("address", address).Int("database", database).Msg("Redis client connected")

	return nil
}
