package main

import (
	"context"

	"todo_api/internal/app"
	"todo_api/internal/config"
	"todo_api/internal/logger"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
)

var adapter *ginadapter.GinLambda

// handler proxies an API Gateway event into the router. Migrations run on
// the first todo request of a cold container, inside the router's gate.
func handler(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return adapter.ProxyWithContext(ctx, req)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", "error", err)
	}
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	a, err := app.Build(context.Background(), cfg)
	if err != nil {
		logger.Fatal("build app", "error", err)
	}

	logger.Info("lambda cold start", "version", cfg.Version)
	adapter = ginadapter.New(a.Router)
	lambda.Start(handler)
}
