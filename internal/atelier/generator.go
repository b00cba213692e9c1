//-------------------------------------------------------------------------
//
// atelier-dw
//
// Copyright (c) 2025 - 2026, Atelier Data
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package atelier

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atelierdata/atelier-dw/internal/datagen"
	"github.com/atelierdata/atelier-dw/internal/logging"
)

// Business constants carried by the operational data. Status labels and
// payment vocabulary are kept in the workshop's own (Spanish) terms since
// they flow into the warehouse as dimension values.
const (
	QuotationApproved = "APROBADA"
	QuotationRejected = "DESAPROBADA"
	OrderInProduction = "En Producción"
	OrderDelivered    = "Entregado"

	paymentAdvance    = "Adelanto"
	paymentSettlement = "Cancelación"
)

var (
	paymentMethods       = []string{"Efectivo", "Tarjeta", "Yape", "Plin"}
	paymentMethodWeights = []int{40, 20, 25, 15}
)

// Config controls how much synthetic data is generated.
type Config struct {
	Quotations int
	Clients    int
	Employees  int
	Suppliers  int
	Materials  int
	Addresses  int
	Garments   int
	Years      int
	RandomSeed uint64
}

// Generator produces synthetic operational data.
type Generator struct {
	faker *datagen.Faker
	cfg   Config
	batch datagen.BatchInsertConfig
}

// NewGenerator creates a generator for the given configuration. A zero
// RandomSeed yields a time-based seed.
func NewGenerator(cfg Config) *Generator {
	faker := datagen.NewFaker()
	if cfg.RandomSeed != 0 {
		faker = datagen.NewFakerWithSeed(cfg.RandomSeed)
	}
	return &Generator{
		faker: faker,
		cfg:   cfg,
		batch: datagen.DefaultBatchConfig(),
	}
}

// GenerateData populates the operational schema in dependency order.
func (g *Generator) GenerateData(ctx context.Context, pool *pgxpool.Pool) error {
	logging.Info().
		Int("quotations", g.cfg.Quotations).
		Int("clients", g.cfg.Clients).
		Int("garments", g.cfg.Garments).
		Int("years", g.cfg.Years).
		Msg("Generating workshop data")

	steps := []struct {
		name string
		fn   func(context.Context, *pgxpool.Pool) error
	}{
		{"addresses", g.generateAddresses},
		{"employees", g.generateEmployees},
		{"clients", g.generateClients},
		{"suppliers", g.generateSuppliers},
		{"materials", g.generateMaterials},
		{"garments", g.generateGarments},
		{"bill of materials", g.generateBillOfMaterials},
		{"garment-size prices", g.priceGarmentSizes},
		{"quotations", g.generateQuotations},
		{"orders", g.generateOrders},
		{"payments", g.generatePayments},
	}

	for _, step := range steps {
		if err := step.fn(ctx, pool); err != nil {
			return fmt.Errorf("failed to generate %s: %w", step.name, err)
		}
	}

	return nil
}

func (g *Generator) generateAddresses(ctx context.Context, pool *pgxpool.Pool) error {
	regions := []string{"Lima", "Arequipa", "Cusco", "La Libertad", "Piura", "Junín", "Lambayeque"}

	values := make([]string, 0, g.cfg.Addresses)
	for i := 0; i < g.cfg.Addresses; i++ {
		region := datagen.Choose(g.faker, regions)
		values = append(values, fmt.Sprintf("(%s, %s, %s, %s)",
			datagen.QuoteString(region),
			datagen.QuoteString(datagen.Truncate(g.faker.City(), 255)),
			datagen.QuoteString(datagen.Truncate(g.faker.City(), 255)),
			datagen.QuoteString(datagen.Truncate(g.faker.Street(), 255)),
		))
	}

	_, err := pool.Exec(ctx, datagen.BuildInsert("address",
		"(region, province, district, street)", values))
	if err != nil {
		return err
	}

	logging.Info().Int("rows", len(values)).Msg("Addresses inserted")
	return nil
}

func (g *Generator) generateEmployees(ctx context.Context, pool *pgxpool.Pool) error {
	values := make([]string, 0, g.cfg.Employees)
	for i := 0; i < g.cfg.Employees; i++ {
		// Emails carry a running index to satisfy the UNIQUE constraint.
		email := fmt.Sprintf("%d.%s", i+1, g.faker.Email())
		values = append(values, fmt.Sprintf("(%s, %s, %s)",
			datagen.QuoteString(datagen.Truncate(g.faker.FirstName(), 100)),
			datagen.QuoteString(datagen.Truncate(g.faker.LastName(), 100)),
			datagen.QuoteString(datagen.Truncate(email, 100)),
		))
	}

	_, err := pool.Exec(ctx, datagen.BuildInsert("employee",
		"(first_name, last_name, email)", values))
	if err != nil {
		return err
	}

	logging.Info().Int("rows", len(values)).Msg("Employees inserted")
	return nil
}

func (g *Generator) generateClients(ctx context.Context, pool *pgxpool.Pool) error {
	// First purchase dates: spread unique-ish days over the past years.
	start := time.Now().AddDate(-g.cfg.Years-4, 0, 0)
	end := time.Now().AddDate(-g.cfg.Years, 0, 0)

	values := make([]string, 0, g.cfg.Clients)
	for i := 0; i < g.cfg.Clients; i++ {
		referredBy := ""
		if g.faker.Chance(0.7) {
			referredBy = g.faker.FirstName() + " " + g.faker.LastName()
		}
		notes := fmt.Sprintf("Cliente de %s", g.faker.City())
		firstPurchase := g.faker.DateRange(start, end)

		values = append(values, fmt.Sprintf("(%s, %s, %s, '%s')",
			datagen.QuoteString(g.faker.Digits(9)),
			datagen.QuoteString(datagen.Truncate(notes, 255)),
			datagen.QuoteNullableString(datagen.Truncate(referredBy, 100)),
			firstPurchase.Format("2006-01-02"),
		))
	}

	_, err := pool.Exec(ctx, datagen.BuildInsert("client",
		"(phone, notes, referred_by, first_purchase_date)", values))
	if err != nil {
		return err
	}

	// Split into disjoint subtypes: first half natural persons, the rest
	// legal entities.
	rows, err := pool.Query(ctx, "SELECT id FROM client ORDER BY id")
	if err != nil {
		return err
	}
	ids, err := scanInts(rows)
	if err != nil {
		return err
	}

	half := len(ids) / 2
	personValues := make([]string, 0, half)
	companyValues := make([]string, 0, len(ids)-half)

	for i, id := range ids {
		if i < half {
			personValues = append(personValues, fmt.Sprintf("(%s, %s, %s, %d)",
				datagen.QuoteString(g.faker.Digits(8)),
				datagen.QuoteString(datagen.Truncate(g.faker.FirstName(), 100)),
				datagen.QuoteString(datagen.Truncate(g.faker.LastName(), 100)),
				id,
			))
		} else {
			legalName := g.faker.Company() + " " + datagen.Choose(g.faker, legalSuffixes)
			companyValues = append(companyValues, fmt.Sprintf("(%s, %s, %s, %d)",
				datagen.QuoteString(datagen.Choose(g.faker, []string{"10", "20"})+g.faker.Digits(9)),
				datagen.QuoteString(datagen.Truncate(legalName, 255)),
				datagen.QuoteString(datagen.Truncate(g.faker.Name(), 100)),
				id,
			))
		}
	}

	if len(personValues) > 0 {
		_, err = pool.Exec(ctx, datagen.BuildInsert("client_person",
			"(national_id, first_name, last_name, client_id)", personValues))
		if err != nil {
			return err
		}
	}
	if len(companyValues) > 0 {
		_, err = pool.Exec(ctx, datagen.BuildInsert("client_company",
			"(tax_id, legal_name, delegate, client_id)", companyValues))
		if err != nil {
			return err
		}
	}

	logging.Info().
		Int("persons", len(personValues)).
		Int("companies", len(companyValues)).
		Msg("Clients inserted")
	return nil
}

var legalSuffixes = []string{"S.A.C.", "S.R.L.", "E.I.R.L.", "S.A.", "S.A.A."}

func (g *Generator) generateSuppliers(ctx context.Context, pool *pgxpool.Pool) error {
	values := make([]string, 0, g.cfg.Suppliers)
	for i := 0; i < g.cfg.Suppliers; i++ {
		taxID := datagen.Choose(g.faker, []string{"10", "20"}) + g.faker.Digits(9)
		legalName := g.faker.Company() + " " + datagen.Choose(g.faker, legalSuffixes)
		phone := "+51 9" + g.faker.Digits(8)

		values = append(values, fmt.Sprintf("(%s, %s, %s, %s)",
			datagen.QuoteString(taxID),
			datagen.QuoteString(datagen.Truncate(legalName, 255)),
			datagen.QuoteString(datagen.Truncate(g.faker.Name(), 100)),
			datagen.QuoteString(phone),
		))
	}

	_, err := pool.Exec(ctx, datagen.BuildInsert("supplier",
		"(tax_id, legal_name, representative, phone)", values))
	if err != nil {
		return err
	}

	logging.Info().Int("rows", len(values)).Msg("Suppliers inserted")
	return nil
}

// materialCategory describes price and packaging ranges for one category
// of sewing supplies.
type materialCategory struct {
	name           string
	items          []string
	minPrice       float64
	maxPrice       float64
	baseUnits      []string
	baseQuantities []float64
}

var materialCategories = []materialCategory{
	{
		name: "Tela",
		items: []string{
			"Algodón 20/1", "Algodón 30/1", "Jersey 100% Algodón", "Pique de Algodón",
			"Popelina", "Gabardina", "Drill", "Denim 12 oz", "Denim 14 oz",
			"Lycra", "Poliéster", "Franela", "Polar", "Rib 1x1", "Interlock",
		},
		minPrice: 8.50, maxPrice: 45.00,
		baseUnits:      []string{"metro"},
		baseQuantities: []float64{20, 50, 80, 100},
	},
	{
		name: "Hilo",
		items: []string{
			"Hilo Poliéster 40/2", "Hilo Algodón 40/2", "Hilo Nylon",
			"Hilo Elástico", "Hilo Overlock", "Hilo Bordado Rayón",
		},
		minPrice: 2.50, maxPrice: 8.00,
		baseUnits:      []string{"metro"},
		baseQuantities: []float64{200, 500, 1000},
	},
	{
		name: "Tinta",
		items: []string{
			"Tinta Serigrafía Base Agua", "Tinta Plastisol", "Tinta Sublimación",
			"Tinta Pigmento Textil", "Tinta Discharge",
		},
		minPrice: 15.00, maxPrice: 85.00,
		baseUnits:      []string{"litro"},
		baseQuantities: []float64{0.25, 0.5, 1, 3.785},
	},
	{
		name: "Botón",
		items: []string{
			"Botón Plástico 2 Huecos", "Botón Plástico 4 Huecos", "Botón Metal",
			"Botón Madera", "Botón Nácar",
		},
		minPrice: 5.00, maxPrice: 50.00,
		baseUnits:      []string{"unidad"},
		baseQuantities: []float64{50, 100, 144, 500},
	},
	{
		name: "Cierre",
		items: []string{
			"Cierre Metálico 15cm", "Cierre Metálico 20cm", "Cierre Plástico 15cm",
			"Cierre Invisible 20cm", "Cierre Separable",
		},
		minPrice: 12.00, maxPrice: 60.00,
		baseUnits:      []string{"unidad"},
		baseQuantities: []float64{10, 25, 50, 100},
	},
	{
		name: "Elástico",
		items: []string{
			"Elástico Plano 1cm", "Elástico Plano 2cm", "Elástico Redondo 3mm",
			"Elástico Boxer",
		},
		minPrice: 8.00, maxPrice: 35.00,
		baseUnits:      []string{"metro"},
		baseQuantities: []float64{10, 25, 50, 100},
	},
	{
		name: "Etiqueta",
		items: []string{
			"Etiqueta Tela Blanca", "Etiqueta Satén", "Etiqueta Transfer",
			"Etiqueta Cuidado", "Etiqueta Talla",
		},
		minPrice: 10.00, maxPrice: 80.00,
		baseUnits:      []string{"unidad"},
		baseQuantities: []float64{100, 250, 500, 1000},
	},
}

func (g *Generator) generateMaterials(ctx context.Context, pool *pgxpool.Pool) error {
	values := make([]string, 0, g.cfg.Materials)
	perCategory := g.cfg.Materials/len(materialCategories) + 1

	for _, cat := range materialCategories {
		for i := 0; i < perCategory && len(values) < g.cfg.Materials; i++ {
			values = append(values, fmt.Sprintf("(%s, %s, %.2f, %s, %.2f)",
				datagen.QuoteString(datagen.Choose(g.faker, cat.items)),
				datagen.QuoteString(cat.name),
				g.faker.Float64(cat.minPrice, cat.maxPrice),
				datagen.QuoteString(datagen.Choose(g.faker, cat.baseUnits)),
				datagen.Choose(g.faker, cat.baseQuantities),
			))
		}
	}

	_, err := pool.Exec(ctx, datagen.BuildInsert("material",
		"(name, category, price, base_unit, base_quantity)", values))
	if err != nil {
		return err
	}

	logging.Info().Int("rows", len(values)).Msg("Materials inserted")
	return nil
}

var sizeLabels = []string{"XS", "S", "M", "L", "XL", "XXL"}

var garmentStyles = []string{
	"Polo Básico", "Polo Pique", "Camisa Oxford", "Polera con Capucha",
	"Casaca Denim", "Pantalón Drill", "Short Deportivo", "Falda Plisada",
	"Vestido Casual", "Chaleco Acolchado", "Buzo Completo", "Mandil Industrial",
}

func (g *Generator) generateGarments(ctx context.Context, pool *pgxpool.Pool) error {
	// Sizes first
	sizeValues := make([]string, 0, len(sizeLabels))
	for _, label := range sizeLabels {
		sizeValues = append(sizeValues, fmt.Sprintf("(%s)", datagen.QuoteString(label)))
	}
	if _, err := pool.Exec(ctx, datagen.BuildInsert("size", "(label)", sizeValues)); err != nil {
		return err
	}

	garmentValues := make([]string, 0, g.cfg.Garments)
	for i := 0; i < g.cfg.Garments; i++ {
		name := fmt.Sprintf("%s %s", datagen.Choose(g.faker, garmentStyles), g.faker.Word())
		garmentValues = append(garmentValues, fmt.Sprintf("(%s, %s, %s)",
			datagen.QuoteString(datagen.Truncate(name, 100)),
			datagen.QuoteString(g.faker.ProductDescription()),
			datagen.QuoteString(datagen.Truncate(g.faker.Sentence(3), 255)),
		))
	}
	if _, err := pool.Exec(ctx, datagen.BuildInsert("garment",
		"(name, description, design)", garmentValues)); err != nil {
		return err
	}

	// Each garment is sellable in 2-5 sizes.
	garmentRows, err := pool.Query(ctx, "SELECT id FROM garment ORDER BY id")
	if err != nil {
		return err
	}
	garmentIDs, err := scanInts(garmentRows)
	if err != nil {
		return err
	}
	sizeRows, err := pool.Query(ctx, "SELECT id FROM size ORDER BY id")
	if err != nil {
		return err
	}
	sizeIDs, err := scanInts(sizeRows)
	if err != nil {
		return err
	}

	linkValues := make([]string, 0, len(garmentIDs)*3)
	for _, gid := range garmentIDs {
		n := g.faker.Int(2, min(5, len(sizeIDs)))
		for _, sid := range datagen.ChooseN(g.faker, sizeIDs, n) {
			linkValues = append(linkValues, fmt.Sprintf("(%d, %d)", gid, sid))
		}
	}
	if _, err := pool.Exec(ctx, datagen.BuildInsert("garment_size",
		"(garment_id, size_id)", linkValues)); err != nil {
		return err
	}

	logging.Info().
		Int("garments", len(garmentValues)).
		Int("garment_sizes", len(linkValues)).
		Msg("Garments inserted")
	return nil
}

func (g *Generator) generateBillOfMaterials(ctx context.Context, pool *pgxpool.Pool) error {
	materialRows, err := pool.Query(ctx, "SELECT id FROM material ORDER BY id")
	if err != nil {
		return err
	}
	materialIDs, err := scanInts(materialRows)
	if err != nil {
		return err
	}
	supplierRows, err := pool.Query(ctx, "SELECT id FROM supplier ORDER BY id")
	if err != nil {
		return err
	}
	supplierIDs, err := scanInts(supplierRows)
	if err != nil {
		return err
	}

	// Supplier links: every material sourced from 1-2 suppliers.
	linkValues := make([]string, 0, len(materialIDs)*2)
	for _, mid := range materialIDs {
		for _, sid := range datagen.ChooseN(g.faker, supplierIDs, g.faker.Int(1, 2)) {
			linkValues = append(linkValues, fmt.Sprintf("(%d, %d)", sid, mid))
		}
	}
	if _, err := pool.Exec(ctx, datagen.BuildInsert("supplier_material",
		"(supplier_id, material_id)", linkValues)); err != nil {
		return err
	}

	// Bill of materials: 1-4 materials per garment-size with a consumption
	// quantity appropriate for a single garment.
	pairRows, err := pool.Query(ctx, "SELECT garment_id, size_id FROM garment_size ORDER BY garment_id, size_id")
	if err != nil {
		return err
	}
	defer pairRows.Close()

	bomValues := make([]string, 0, 256)
	for pairRows.Next() {
		var garmentID, sizeID int
		if err := pairRows.Scan(&garmentID, &sizeID); err != nil {
			return err
		}
		for _, mid := range datagen.ChooseN(g.faker, materialIDs, g.faker.Int(1, 4)) {
			bomValues = append(bomValues, fmt.Sprintf("(%d, %d, %d, %.2f)",
				garmentID, sizeID, mid, g.faker.Float64(0.1, 3.0)))
		}
	}
	if err := pairRows.Err(); err != nil {
		return err
	}

	if _, err := pool.Exec(ctx, datagen.BuildInsert("garment_size_material",
		"(garment_id, size_id, material_id, quantity)", bomValues)); err != nil {
		return err
	}

	logging.Info().
		Int("supplier_links", len(linkValues)).
		Int("bom_entries", len(bomValues)).
		Msg("Bill of materials inserted")
	return nil
}

// priceGarmentSizes derives a sale price for every garment-size by summing
// its per-unit material costs and adding a profit margin.
func (g *Generator) priceGarmentSizes(ctx context.Context, pool *pgxpool.Pool) error {
	rows, err := pool.Query(ctx, `
        SELECT gsm.garment_id, gsm.size_id, gsm.quantity, m.price, m.base_quantity
        FROM garment_size_material gsm
        JOIN material m ON gsm.material_id = m.id
        ORDER BY gsm.garment_id, gsm.size_id
    `)
	if err != nil {
		return err
	}
	defer rows.Close()

	type pair struct{ garmentID, sizeID int }
	costs := make(map[pair]float64)

	for rows.Next() {
		var p pair
		var consumed, price, baseQty float64
		if err := rows.Scan(&p.garmentID, &p.sizeID, &consumed, &price, &baseQty); err != nil {
			return err
		}
		// unit cost of the material, scaled by how much a garment consumes
		costs[p] += price / baseQty * consumed
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if len(costs) == 0 {
		logging.Warn().Msg("No bill-of-materials entries, skipping price generation")
		return nil
	}

	values := make([]string, 0, len(costs))
	for p, cost := range costs {
		margin := g.faker.Price(5, 15)
		values = append(values, fmt.Sprintf("(%d, %d, %.2f)", p.garmentID, p.sizeID, cost+margin))
	}

	sql := fmt.Sprintf(`
        UPDATE garment_size AS gs
        SET price = v.price
        FROM (VALUES %s) AS v(garment_id, size_id, price)
        WHERE gs.garment_id = v.garment_id AND gs.size_id = v.size_id
    `, strings.Join(values, ", "))
	if _, err := pool.Exec(ctx, sql); err != nil {
		return err
	}

	logging.Info().Int("rows", len(values)).Msg("Garment-size prices generated")
	return nil
}

func scanInts(rows interface {
	Next() bool
	Scan(...any) error
	Close()
	Err() error
}) ([]int, error) {
	defer rows.Close()
	var out []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
