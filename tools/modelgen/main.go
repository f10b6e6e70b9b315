package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gen"
	"gorm.io/gorm"
)

func main() {
	var dsn, out string
	flag.StringVar(&dsn, "dsn", os.Getenv("SHOPEELIFE_DB_DSN"), "postgres dsn")
	flag.StringVar(&out, "out", "internal/adapter/repo/gorm/model", "output dir for generated models")
	flag.Parse()

	if dsn == "" {
		log.Fatal("missing --dsn or SHOPEELIFE_DB_DSN")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("open postgres: %v", err)
	}

	g := gen.NewGenerator(gen.Config{
		OutPath:      out,
		ModelPkgPath: "model",
		Mode:         gen.WithoutContext | gen.WithDefaultQuery,
	})
	g.UseDB(db)
	g.WithDataTypeMap(map[string]func(gorm.ColumnType) string{
		"integer": func(gorm.ColumnType) string { return "int32" },
		"jsonb":   func(gorm.ColumnType) string { return "string" },
	})
	// schema_migrations belongs to golang-migrate.
	g.GenerateModel("player_progress")
	g.Execute()

	fmt.Printf("generated gorm models at %s\n", out)
}
