// seed carga los datos de demostración (usuarios, catálogo y ventas) y,
// opcionalmente, importa un catálogo adicional desde CSV.
//
// Uso: go run ./cmd/seed [-products catalogo.csv] [-charset latin1]
// El CSV lleva encabezado "name,category,price". Exportaciones de hojas de
// cálculo suelen venir en ISO-8859-1; -charset latin1 las convierte a UTF-8.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/sales-dashboard-api/internal/application/seed"
	"github.com/jhoicas/sales-dashboard-api/internal/infrastructure/storage"
	"github.com/jhoicas/sales-dashboard-api/pkg/config"
	"github.com/jhoicas/sales-dashboard-api/pkg/logger"
)

func main() {
	productsPath := flag.String("products", "", "CSV de productos a importar (opcional)")
	charset := flag.String("charset", "utf-8", "codificación del CSV: utf-8 | latin1")
	skipDemo := flag.Bool("skip-demo", false, "no sembrar usuarios, productos y ventas demo")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	if cfg.Store.Driver == config.StoreDriverMemory {
		log.Warn().Msg("STORE_DRIVER=memory: el seed solo vive mientras corre este proceso")
	}

	ctx := context.Background()
	repos, err := storage.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacén")
	}
	defer repos.Close()

	if !*skipDemo {
		if err := seed.NewDemoSeeder(repos.Users, repos.Products, repos.Tx, log.Named("seed")).Run(ctx); err != nil {
			log.Fatal().Err(err).Msg("sembrar datos demo")
		}
	}

	if *productsPath == "" {
		return
	}
	f, err := os.Open(*productsPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *productsPath).Msg("abrir CSV")
	}
	defer f.Close()

	r, err := decodingReader(f, *charset)
	if err != nil {
		log.Fatal().Err(err).Msg("charset")
	}
	res, err := seed.NewCatalogImporter(repos.Tx, log.Named("import")).Import(ctx, r)
	if err != nil {
		log.Fatal().Err(err).Str("path", *productsPath).Msg("importar catálogo")
	}
	fmt.Printf("Importados %d productos (%d filas omitidas) desde %s\n", res.Imported, res.Skipped, *productsPath)
}

func decodingReader(r io.Reader, charset string) (io.Reader, error) {
	switch strings.ToLower(strings.ReplaceAll(charset, "_", "-")) {
	case "", "utf-8", "utf8":
		return r, nil
	case "latin1", "latin-1", "iso-8859-1", "iso8859-1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	case "windows-1252", "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	}
	return nil, fmt.Errorf("charset no soportado: %q", charset)
}
