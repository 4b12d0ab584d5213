// Package imprints folds publisher imprint labels into their parent
// publisher.
package imprints

import "strings"

// Parent publisher labels.
const (
	DCComics       = "DC Comics"
	Marvel         = "Marvel"
	ImageComics    = "Image"
	DarkHorse      = "Dark Horse Comics"
	IDW            = "IDW Publishing"
	Dynamite       = "Dynamite Entertainment"
	Boom           = "Boom! Studios"
	Valiant        = "Valiant"
	Archie         = "Archie Comics"
	Oni            = "Oni Press"
	Titan          = "Titan Comics"
	AfterShock     = "AfterShock Comics"
	Humanoids      = "Humanoids"
	Fantagraphics  = "Fantagraphics"
	ScoutComics    = "Scout Comics"
	VizMedia       = "Viz"
	DrawnQuarterly = "Drawn & Quarterly"
	AWAStudios     = "Artists, Writers & Artisans"
)

var imprintParents = map[string]string{
	// DC
	"vertigo":               DCComics,
	"wildstorm":             DCComics,
	"dc black label":        DCComics,
	"black label":           DCComics,
	"young animal":          DCComics,
	"dc ink":                DCComics,
	"dc zoom":               DCComics,
	"milestone":             DCComics,
	"paradox press":         DCComics,
	"helix":                 DCComics,
	"minx":                  DCComics,
	"impact comics":         DCComics,
	"johnny dc":             DCComics,
	"elseworlds":            DCComics,
	"america's best comics": DCComics,
	"cmx":                   DCComics,
	"zuda comics":           DCComics,
	"hill house comics":     DCComics,
	"jinxworld":             DCComics,
	"piranha press":         DCComics,

	// Marvel
	"marvel knights":    Marvel,
	"max":               Marvel,
	"marvel max":        Marvel,
	"icon":              Marvel,
	"icon comics":       Marvel,
	"epic":              Marvel,
	"epic comics":       Marvel,
	"ultimate marvel":   Marvel,
	"marvel ultimate":   Marvel,
	"star comics":       Marvel,
	"marvel uk":         Marvel,
	"timely":            Marvel,
	"atlas":             Marvel,
	"marvel age":        Marvel,
	"marvel adventures": Marvel,
	"marvel noir":       Marvel,
	"razorline":         Marvel,
	"malibu":            Marvel,
	"new universe":      Marvel,
	"curtis magazines":  Marvel,

	// Image
	"top cow":                    ImageComics,
	"skybound":                   ImageComics,
	"shadowline":                 ImageComics,
	"todd mcfarlane productions": ImageComics,
	"extreme studios":            ImageComics,
	"homage comics":              ImageComics,
	"desperado publishing":       ImageComics,

	// Dark Horse
	"dark horse books":       DarkHorse,
	"legend":                 DarkHorse,
	"berger books":           DarkHorse,
	"maverick":               DarkHorse,
	"dark horse manga":       DarkHorse,
	"comics' greatest world": DarkHorse,

	// IDW
	"top shelf":             IDW,
	"top shelf productions": IDW,
	"idw originals":         IDW,
	"yoe books":             IDW,
	"woodward books":        IDW,

	// Dynamite
	"dynamite":          Dynamite,
	"dynamite classics": Dynamite,

	// Boom!
	"boom! box":  Boom,
	"boom box":   Boom,
	"kaboom!":    Boom,
	"archaia":    Boom,
	"boom! town": Boom,

	// Valiant
	"acclaim comics":        Valiant,
	"valiant entertainment": Valiant,

	// Others
	"red circle":              Archie,
	"archie action":           Archie,
	"dark circle comics":      Archie,
	"lion forge":              Oni,
	"hard case crime":         Titan,
	"statix press":            Titan,
	"source point press":      AfterShock,
	"les humanoïdes associés": Humanoids,
	"the lion forge":          Oni,
	"fantagraphics books":     Fantagraphics,
	"eros comix":              Fantagraphics,
	"scout legendary":         ScoutComics,
	"shonen jump":             VizMedia,
	"viz media":               VizMedia,
	"petits livres":           DrawnQuarterly,
	"awa upshot":              AWAStudios,
}

// TryResolve returns the parent publisher of an imprint label. Lookup is
// case-insensitive and ignores surrounding whitespace. Parent publishers
// themselves are not imprints and report false.
func TryResolve(name string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return "", false
	}
	parent, ok := imprintParents[key]
	return parent, ok
}

// Resolve maps a catalog publisher to the (publisher, imprint) pair stored on
// metadata. When publisher is a known imprint the parent is returned together
// with the original label; otherwise publisher is returned unchanged with an
// empty imprint.
func Resolve(publisher string) (string, string) {
	if parent, ok := TryResolve(publisher); ok {
		return parent, strings.TrimSpace(publisher)
	}
	return publisher, ""
}

// Count returns the number of known imprint labels.
func Count() int {
	return len(imprintParents)
}
