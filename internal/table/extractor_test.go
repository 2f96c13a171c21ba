package table

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/tablecheck/internal/interfaces"
	"github.com/ternarybob/tablecheck/internal/models"
)

var columns = []string{"Nombre", "Apellidos", "Teléfono"}

// htmlSurface serves fixed markup from OuterHTML
type htmlSurface struct {
	interfaces.Surface
	html string
	err  error
}

func (s *htmlSurface) OuterHTML(ctx context.Context, target interfaces.Target) (string, error) {
	return s.html, s.err
}

func TestParseSnapshot_RowsInRenderOrder(t *testing.T) {
	html := `<table id="dataTable">
		<thead><tr><th>Nombre</th><th>Apellidos</th><th>Teléfono</th><th>Acciones</th></tr></thead>
		<tbody>
			<tr><td>Zoe</td><td>Alba  Ruiz</td><td>600111222</td><td><button>x</button></td></tr>
			<tr><td> Ana </td><td>Pérez</td><td>600333444</td><td></td></tr>
		</tbody>
	</table>`

	snapshot, err := ParseSnapshot(html, columns)
	require.NoError(t, err)
	require.Equal(t, 2, snapshot.Len())

	assert.Equal(t, models.Record{"Nombre": "Zoe", "Apellidos": "Alba Ruiz", "Teléfono": "600111222"}, snapshot.Rows[0])
	assert.Equal(t, models.Record{"Nombre": "Ana", "Apellidos": "Pérez", "Teléfono": "600333444"}, snapshot.Rows[1])
	assert.Equal(t, columns, snapshot.Columns)
	assert.False(t, snapshot.CapturedAt.IsZero())
}

func TestParseSnapshot_EmptyPlaceholder(t *testing.T) {
	html := `<table><tbody><tr class="odd"><td valign="top" colspan="3" class="dataTables_empty">No matching records found</td></tr></tbody></table>`

	snapshot, err := ParseSnapshot(html, columns)
	require.NoError(t, err)
	assert.Equal(t, 0, snapshot.Len())
	assert.NotNil(t, snapshot.Rows)
}

func TestParseSnapshot_NoBody(t *testing.T) {
	snapshot, err := ParseSnapshot(`<table id="dataTable"></table>`, columns)
	require.NoError(t, err)
	assert.Equal(t, 0, snapshot.Len())
}

func TestParseSnapshot_ShortRowIsStructuralError(t *testing.T) {
	html := `<table><tbody><tr><td>Ana</td><td>Pérez</td></tr></tbody></table>`

	_, err := ParseSnapshot(html, columns)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 1 has 2 cells, expected 3")
}

func TestExtractor_ExtractSnapshotIsIdempotent(t *testing.T) {
	surface := &htmlSurface{html: `<table><tbody><tr><td>Ana</td><td>Pérez</td><td>1</td></tr></tbody></table>`}
	extractor := NewExtractor(surface, columns, arbor.NewLogger())
	target := interfaces.Target{Name: "table", Selector: "#dataTable"}

	first, err := extractor.ExtractSnapshot(context.Background(), target)
	require.NoError(t, err)
	second, err := extractor.ExtractSnapshot(context.Background(), target)
	require.NoError(t, err)

	assert.Equal(t, first.Rows, second.Rows)
	assert.Equal(t, columns, extractor.Columns())
}

func TestExtractor_SurfaceError(t *testing.T) {
	cause := errors.New("table not attached")
	extractor := NewExtractor(&htmlSurface{err: cause}, columns, arbor.NewLogger())

	_, err := extractor.ExtractSnapshot(context.Background(), interfaces.Target{Name: "table", Selector: "#dataTable"})
	assert.ErrorIs(t, err, cause)
}
