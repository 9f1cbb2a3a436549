package textnorm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dquispe/trastienda-api/pkg/textnorm"
)

func TestFold(t *testing.T) {
	casos := map[string]string{
		"Pantalón Té":      "pantalon te",
		"CAMISA":           "camisa",
		"Ñandú":            "nandu",
		"polo básico":      "polo basico",
		"sin tildes":       "sin tildes",
		"":                 "",
		"Über-Größe":       "uber-große", // la ß no es diacrítico, se conserva
		"CASACA DE JEAN 2": "casaca de jean 2",
	}
	for in, want := range casos {
		assert.Equal(t, want, textnorm.Fold(in), "Fold(%q)", in)
	}
}

// Dos escrituras del mismo nombre (con y sin tilde, distinta caja) deben caer
// en la misma forma normalizada: es lo que hace funcionar la búsqueda.
func TestFold_BusquedaInsensible(t *testing.T) {
	assert.Equal(t, textnorm.Fold("Cámisa Manga Lárga"), textnorm.Fold("camisa manga larga"))
}
