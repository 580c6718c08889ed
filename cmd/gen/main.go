// Command gen writes typed gorm/gen query helpers for the document table.
package main

import (
	"emart/internal/infra/persistence/model"

	"gorm.io/gen"
)

func main() {
	g := gen.NewGenerator(gen.Config{
		OutPath:       "./internal/infra/persistence/postgres/query",
		Mode:          gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable: false,
	})

	g.ApplyBasic(model.DocumentModel{})

	g.Execute()
}
