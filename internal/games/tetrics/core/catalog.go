// Package core implements the Tetrics simulation: piece catalog, board, collision
// checks and the session state machine. It has no dependencies on the platform,
// rendering or persistence layers.
package core

import "math/rand"

// PieceType identifies one of the seven piece shapes.
type PieceType uint8

const (
	PieceI PieceType = iota
	PieceO
	PieceT
	PieceS
	PieceZ
	PieceJ
	PieceL
)

// PieceCount is the number of piece types in every catalog.
const PieceCount = 7

// String returns the conventional single-letter name of the shape.
func (t PieceType) String() string {
	switch t {
	case PieceI:
		return "I"
	case PieceO:
		return "O"
	case PieceT:
		return "T"
	case PieceS:
		return "S"
	case PieceZ:
		return "Z"
	case PieceJ:
		return "J"
	case PieceL:
		return "L"
	default:
		return "?"
	}
}

// Valid reports whether t is one of the seven piece types.
func (t PieceType) Valid() bool {
	return t < PieceCount
}

// PieceDef is the static definition of a piece type within a catalog.
type PieceDef struct {
	Type  PieceType
	Label string // Display label ("T", "API Gateway")
	Color uint32 // 0xRRGGBB
	Shape Shape  // Base rotation state
	Fact  *Fact  // Themed catalogs only
}

// Catalog is an immutable table of piece definitions.
type Catalog struct {
	Name   string
	Title  string
	pieces [PieceCount]PieceDef
}

// Catalog names.
const (
	CatalogClassic = "classic"
	CatalogCloud   = "cloud"
)

var baseShapes = [PieceCount]Shape{
	PieceI: {{1, 1, 1, 1}},
	PieceO: {{1, 1}, {1, 1}},
	PieceT: {{0, 1, 0}, {1, 1, 1}},
	PieceS: {{0, 1, 1}, {1, 1, 0}},
	PieceZ: {{1, 1, 0}, {0, 1, 1}},
	PieceJ: {{1, 0, 0}, {1, 1, 1}},
	PieceL: {{0, 0, 1}, {1, 1, 1}},
}

var classicCatalog = Catalog{
	Name:  CatalogClassic,
	Title: "Tetrics",
	pieces: [PieceCount]PieceDef{
		{Type: PieceI, Label: "I", Color: 0x00FFFF, Shape: baseShapes[PieceI]},
		{Type: PieceO, Label: "O", Color: 0xFFFF00, Shape: baseShapes[PieceO]},
		{Type: PieceT, Label: "T", Color: 0x800080, Shape: baseShapes[PieceT]},
		{Type: PieceS, Label: "S", Color: 0x00FF00, Shape: baseShapes[PieceS]},
		{Type: PieceZ, Label: "Z", Color: 0xFF0000, Shape: baseShapes[PieceZ]},
		{Type: PieceJ, Label: "J", Color: 0x0000FF, Shape: baseShapes[PieceJ]},
		{Type: PieceL, Label: "L", Color: 0xFFA500, Shape: baseShapes[PieceL]},
	},
}

var cloudCatalog = Catalog{
	Name:  CatalogCloud,
	Title: "Cloud Tetrics",
	pieces: [PieceCount]PieceDef{
		{Type: PieceI, Label: "AWS Lambda", Color: 0xFF9900, Shape: baseShapes[PieceI], Fact: &cloudFacts[PieceI]},
		{Type: PieceO, Label: "Amazon S3", Color: 0x3F8624, Shape: baseShapes[PieceO], Fact: &cloudFacts[PieceO]},
		{Type: PieceT, Label: "API Gateway", Color: 0x9D5AAE, Shape: baseShapes[PieceT], Fact: &cloudFacts[PieceT]},
		{Type: PieceS, Label: "DynamoDB", Color: 0x3F48CC, Shape: baseShapes[PieceS], Fact: &cloudFacts[PieceS]},
		{Type: PieceZ, Label: "CloudFormation", Color: 0xFF4B4B, Shape: baseShapes[PieceZ], Fact: &cloudFacts[PieceZ]},
		{Type: PieceJ, Label: "Amazon EC2", Color: 0xFF9900, Shape: baseShapes[PieceJ], Fact: &cloudFacts[PieceJ]},
		{Type: PieceL, Label: "CloudWatch", Color: 0xE31837, Shape: baseShapes[PieceL], Fact: &cloudFacts[PieceL]},
	},
}

// ClassicCatalog returns the standard seven-piece catalog.
func ClassicCatalog() *Catalog {
	return &classicCatalog
}

// CloudCatalog returns the themed catalog where each shape stands for a cloud service.
func CloudCatalog() *Catalog {
	return &cloudCatalog
}

// CatalogByName looks up a catalog by name. Unknown names yield the classic catalog
// and ok == false.
func CatalogByName(name string) (cat *Catalog, ok bool) {
	switch name {
	case CatalogClassic, "":
		return ClassicCatalog(), true
	case CatalogCloud:
		return CloudCatalog(), true
	default:
		return ClassicCatalog(), false
	}
}

// Def returns the definition for t. The returned shape is a copy and may be mutated.
func (c *Catalog) Def(t PieceType) PieceDef {
	d := c.pieces[t]
	d.Shape = d.Shape.Clone()
	return d
}

// Label returns the display label for t.
func (c *Catalog) Label(t PieceType) string {
	return c.pieces[t].Label
}

// Fact returns the fact record for t, or nil for catalogs without facts.
func (c *Catalog) Fact(t PieceType) *Fact {
	return c.pieces[t].Fact
}

// Themed reports whether the catalog carries fact records.
func (c *Catalog) Themed() bool {
	return c.pieces[0].Fact != nil
}

// PickRandom returns a uniformly distributed piece type.
func (c *Catalog) PickRandom(rng *rand.Rand) PieceType {
	return PieceType(rng.Intn(PieceCount))
}

// Types returns all piece types in catalog order.
func (c *Catalog) Types() []PieceType {
	types := make([]PieceType, PieceCount)
	for i := range types {
		types[i] = PieceType(i)
	}
	return types
}
