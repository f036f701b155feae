package mealopt

type SearchConfig struct {
	MaxIterations int     `env:"MAX_ITERATIONS,default=100"`
	Patience      int     `env:"PATIENCE,default=25"`
	Seed          int64   `env:"SEED,default=0"`
	HardWeight    float64 `env:"HARD_WEIGHT,default=100"`
	SoftWeight    float64 `env:"SOFT_WEIGHT,default=1"`
	Restarts      int     `env:"RESTARTS,default=1"`
}

type ArtifactsConfig struct {
	CatalogPath     string `env:"ARTIFACTS_CATALOG_PATH,default=artifacts/foods.json"`
	ConstraintsPath string `env:"ARTIFACTS_CONSTRAINTS_PATH,default=artifacts/constraints.json"`
	HistoryDBPath   string `env:"HISTORY_DB_PATH,default=mealopt.db"`
	WebhookURL      string `env:"WEBHOOK_URL"`
}
