package main

import (
	"context"

	"Gin_postgres_redis_asset_tool/cmd"
)

func main() {
	cmd.Execute(context.Background())
}
