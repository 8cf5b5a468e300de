// Package synth renders synthetic Argentine invoices and tickets with known
// ground truth, for building detection datasets and measuring OCR accuracy.
package synth

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"
)

var products = []string{
	"Yerba Mate 1kg", "Pan Lactal", "Aceite de Girasol 900ml",
	"Harina 000 1kg", "Arroz largo fino 1kg",
	"Gaseosa Cola 2L", "Queso Cremoso 500g", "Leche Entera 1L",
	"Galletitas surtidas", "Azúcar 1kg", "Servicio técnico", "Baterías AA x4",
}

var companyNames = []string{
	"Diaz-Benitez", "Gomez-Luna", "Gutierrez e Hijos", "Castillo-Acosta",
	"Blanco-Ramirez", "Cordoba-Soto", "Arias y Silva", "Maidana Hnos",
	"Luna-Paz", "Rios-Molina",
}

var companySuffixes = []string{"S.A.", "SRL", "S.R.L."}

var shopNames = []string{
	"Supermercado Los Andes", "Kiosco 24hs", "Farmacia San José", "Panadería La Nueva",
}

var streets = []string{
	"Av. Corrientes 1420", "Calle San Martín 355", "Av. Rivadavia 7810",
	"Belgrano 912", "Av. Santa Fe 2301", "Mitre 548",
}

var cities = []string{"CABA", "Córdoba", "Rosario", "Mendoza", "La Plata", "Salta"}

var personNames = []string{
	"Juan Pérez", "María González", "Carlos Sosa", "Ana Fernández",
	"Consumidor Final", "Lucía Romero",
}

var paymentMethods = []string{"Efectivo", "Tarjeta Débito", "Tarjeta Crédito", "Mercado Pago"}

var saleTerms = []string{"Contado", "Tarjeta Débito", "Tarjeta Crédito", "Cuenta Corriente"}

// Item is one product row on a document.
type Item struct {
	Description string  `json:"desc" yaml:"desc"`
	Quantity    int     `json:"cant" yaml:"cant"`
	UnitPrice   float64 `json:"unit" yaml:"unit"`
	Subtotal    float64 `json:"subtotal" yaml:"subtotal"`
}

// Document holds everything needed to draw one invoice or ticket and to
// record its ground truth.
type Document struct {
	Kind        string  `json:"tipo" yaml:"tipo"` // A, B, C or TICKET
	CompanyName string  `json:"razon_social" yaml:"razon_social"`
	CUIT        string  `json:"cuit" yaml:"cuit"`
	Address     string  `json:"domicilio" yaml:"domicilio"`
	IVAStatus   string  `json:"iva" yaml:"iva"`
	PointOfSale string  `json:"punto_venta,omitempty" yaml:"punto_venta,omitempty"`
	Number      string  `json:"nro" yaml:"nro"`
	Date        string  `json:"fecha" yaml:"fecha"`
	Time        string  `json:"hora,omitempty" yaml:"hora,omitempty"`
	Customer    string  `json:"cliente,omitempty" yaml:"cliente,omitempty"`
	CustomerTax string  `json:"cliente_iva,omitempty" yaml:"cliente_iva,omitempty"`
	SaleTerms   string  `json:"cond_venta,omitempty" yaml:"cond_venta,omitempty"`
	Payment     string  `json:"pago,omitempty" yaml:"pago,omitempty"`
	Items       []Item  `json:"items" yaml:"items"`
	Base        float64 `json:"base" yaml:"base"`
	IVAAmount   float64 `json:"iva_monto" yaml:"iva_monto"`
	Total       float64 `json:"total" yaml:"total"`
	CAE         string  `json:"cae,omitempty" yaml:"cae,omitempty"`
	CAEDue      string  `json:"cae_vto,omitempty" yaml:"cae_vto,omitempty"`
	QRData      string  `json:"qr" yaml:"qr"`
}

// Generator produces random document metadata. Seeded, so a dataset can be
// regenerated exactly.
type Generator struct {
	rnd *rand.Rand
}

func NewGenerator(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// CUIT builds a formatted tax id with a realistic prefix. The check digit is
// random, matching the rest of the synthetic data.
func (g *Generator) CUIT() string {
	prefixes := []int{20, 23, 24, 27, 30, 33, 34}
	return fmt.Sprintf("%02d-%08d-%d",
		prefixes[g.rnd.Intn(len(prefixes))],
		10000000+g.rnd.Intn(90000000),
		g.rnd.Intn(10),
	)
}

func (g *Generator) date() string {
	d := time.Now().AddDate(0, 0, -g.rnd.Intn(720))
	return d.Format("02/01/2006")
}

func (g *Generator) address() string {
	return streets[g.rnd.Intn(len(streets))] + ", " + cities[g.rnd.Intn(len(cities))]
}

func (g *Generator) items(n int) []Item {
	items := make([]Item, n)
	for i := range items {
		q := 1 + g.rnd.Intn(5)
		unit := round2(300 + g.rnd.Float64()*14700)
		items[i] = Item{
			Description: products[g.rnd.Intn(len(products))],
			Quantity:    q,
			UnitPrice:   unit,
			Subtotal:    round2(float64(q) * unit),
		}
	}
	return items
}

// Invoice generates metadata for an A, B or C invoice. Type A breaks out the
// 21% IVA; B and C carry it inside the final price.
func (g *Generator) Invoice(kind string) *Document {
	doc := &Document{
		Kind:        kind,
		CompanyName: companyNames[g.rnd.Intn(len(companyNames))] + " " + companySuffixes[g.rnd.Intn(len(companySuffixes))],
		CUIT:        g.CUIT(),
		Address:     g.address(),
		PointOfSale: fmt.Sprintf("%04d", 1+g.rnd.Intn(9999)),
		Number:      fmt.Sprintf("%08d", 1+g.rnd.Intn(99999999)),
		Date:        g.date(),
		SaleTerms:   saleTerms[g.rnd.Intn(len(saleTerms))],
		Items:       g.items(2 + g.rnd.Intn(5)),
		CAE:         g.digits(14),
		CAEDue:      time.Now().AddDate(0, 0, 7).Format("02/01/2006"),
		QRData:      fmt.Sprintf("https://qr.afip.gob.ar/?p=%012d", g.rnd.Int63n(1000000000000)),
	}

	if kind == "A" {
		doc.IVAStatus = "Responsable Inscripto"
		doc.Customer = companyNames[g.rnd.Intn(len(companyNames))]
		doc.CustomerTax = "Responsable Inscripto"
	} else {
		doc.IVAStatus = "Monotributista"
		if kind == "B" {
			doc.IVAStatus = "Responsable Inscripto"
		}
		doc.Customer = personNames[g.rnd.Intn(len(personNames))]
		doc.CustomerTax = "Consumidor Final"
	}

	doc.Base = round2(sumSubtotals(doc.Items))
	if kind == "A" {
		doc.IVAAmount = round2(doc.Base * 0.21)
		doc.Total = round2(doc.Base + doc.IVAAmount)
	} else {
		doc.Total = doc.Base
	}
	return doc
}

// Ticket generates metadata for a common (non A/B/C) retail ticket.
func (g *Generator) Ticket() *Document {
	doc := &Document{
		Kind:        "TICKET",
		CompanyName: shopNames[g.rnd.Intn(len(shopNames))],
		CUIT:        g.CUIT(),
		Address:     g.address(),
		Number:      fmt.Sprintf("%d", 1000+g.rnd.Intn(9000)),
		Date:        g.date(),
		Time:        fmt.Sprintf("%02d:%02d", g.rnd.Intn(24), g.rnd.Intn(60)),
		Payment:     paymentMethods[g.rnd.Intn(len(paymentMethods))],
		Items:       g.items(3 + g.rnd.Intn(6)),
		QRData:      fmt.Sprintf("https://qr.afip.gob.ar/?t=%06d", g.rnd.Intn(1000000)),
	}
	doc.Base = round2(sumSubtotals(doc.Items))
	doc.Total = doc.Base
	return doc
}

func (g *Generator) digits(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "%d", g.rnd.Intn(10))
	}
	return b.String()
}

// Expected returns the ground-truth field values, keyed by region class, in
// the exact form a perfect OCR read of the rendered page would produce.
func (doc *Document) Expected() map[string]string {
	tipo := doc.Kind
	if tipo == "TICKET" {
		tipo = ""
	}
	name := doc.CompanyName
	if doc.Kind == "TICKET" {
		name = strings.ToUpper(name)
	}
	return map[string]string{
		"numero_factura": doc.Number,
		"fecha":          doc.Date,
		"cuit_emisor":    doc.CUIT,
		"razon_social":   name,
		"tipo_factura":   tipo,
		"total":          FormatMoney(doc.Total),
	}
}

// FormatMoney renders an amount with Argentine separators: dots for
// thousands, comma for decimals. 129067.54 becomes "129.067,54".
func FormatMoney(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	intPart, frac := s[:len(s)-3], s[len(s)-2:]

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return b.String() + "," + frac
}

func sumSubtotals(items []Item) float64 {
	var sum float64
	for _, it := range items {
		sum += it.Subtotal
	}
	return sum
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
