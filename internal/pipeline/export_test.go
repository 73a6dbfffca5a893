package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/parsingtool/internal/extract"
	"github.com/a3tai/parsingtool/internal/schema"
)

const rejectsOrder = `Export Order
Created by: Jane Smith
Date Requested: 03.02.2025
Olam Ref No: 4500123
Delivery No: 80099999
Sales Order: 1234567
Vessel ETD: 15/03/2025
Port of Destination: Jebel Ali, UAE
Container Type: 40' HC
Packer :
Seaway Logistics
Almonds Kern Non Var Mfg Splits&Brokens KG
Batch : F012322001
14 BAGS
H&S Satake
Batch : F012322002
3 BAGS
H&S Beltuza
Batch : F012322001
To be loaded on PLASTIC export pallets
2 days Fumigation with Profume
`

const palletOrder = `Olam Ref No: 4500124
Almonds Kern Carm Supr 25/27 50lb ctn
Batch : F1
22.000 PAL
Batch : F2
Batch : F3
10 PAL
`

func TestExport_HeaderFields(t *testing.T) {
	rows := table(t, parse(t, Export, rejectsOrder), "export").Rows
	require.NotEmpty(t, rows)

	row := rows[0]
	assert.Equal(t, "Jane Smith", row.Get("Name"))
	assert.Equal(t, "03/02/2025", row.Get("Date Requested"))
	assert.Equal(t, "4500123", row.Get("OLAM Ref Number"))
	assert.Equal(t, "80099999", row.Get("Delivery Number"))
	assert.Equal(t, "1234567", row.Get("Sale Order Number"))
	assert.Equal(t, "15/03/2025", row.Get("Vessel ETD"))
	assert.Equal(t, "Jebel Ali, UAE", row.Get("Destination"))
	assert.Equal(t, "Seaway Logistics", row.Get("3rd Party Storage"))
	assert.Equal(t, "PLASTIC export pallets", row.Get("Pallet"))
	assert.Equal(t, "2 days Fumigation with Profume", row.Get("Fumigation"))
	assert.Equal(t, "40' HC", row.Get("Container"))
}

func TestExport_RejectRowsConsumeBagsAndGrades(t *testing.T) {
	rows := table(t, parse(t, Export, rejectsOrder), "export").Rows
	require.Len(t, rows, 2, "repeated batch numbers collapse")

	assert.Equal(t, "F012322001", rows[0].Get("Batch Number"))
	assert.Equal(t, "14 BAGS", rows[0].Get("SSCC Qty"))
	assert.Equal(t, "H&S Satake", rows[0].Get("Grade"))

	assert.Equal(t, "F012322002", rows[1].Get("Batch Number"))
	assert.Equal(t, "3 BAGS", rows[1].Get("SSCC Qty"))
	assert.Equal(t, "H&S Beltuza", rows[1].Get("Grade"))

	for _, r := range rows {
		assert.Equal(t, extract.RejectVariety, r.Get("Variety"))
		assert.Equal(t, extract.RejectSize, r.Get("Size"))
		assert.Equal(t, extract.RejectPackaging, r.Get("Packaging"))
	}
}

func TestExport_PalletCountsArePositional(t *testing.T) {
	rows := table(t, parse(t, Export, palletOrder), "export").Rows
	require.Len(t, rows, 3)

	assert.Equal(t, "22.000 PAL", rows[0].Get("SSCC Qty"))
	assert.Equal(t, "10 PAL", rows[1].Get("SSCC Qty"))
	// list exhausted: document-level value
	assert.Equal(t, "22.000 PAL", rows[2].Get("SSCC Qty"))

	for _, r := range rows {
		assert.Equal(t, "Almonds Kern Carm", r.Get("Variety"))
		assert.Equal(t, "Supr", r.Get("Grade"))
		assert.Equal(t, "25/27", r.Get("Size"))
		assert.Equal(t, "50lb ctn", r.Get("Packaging"))
	}
}

func TestExport_BatchLayouts(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		batches []string
		qty     []string
	}{
		{
			name:    "value on next line",
			text:    "Olam Ref No: 4500126\nBatch :\nF012322001\n22.000 PAL\nBatch :\nF012322002\n10 PAL\n",
			batches: []string{"F012322001", "F012322002"},
			qty:     []string{"22.000 PAL", "10 PAL"},
		},
		{
			name:    "two batches on one line",
			text:    "Batch : F1 Batch : F2\n1 PAL\n2 PAL\n",
			batches: []string{"F1", "F2"},
			qty:     []string{"1 PAL", "2 PAL"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := table(t, parse(t, Export, tt.text), "export").Rows
			require.Len(t, rows, len(tt.batches))
			for i, r := range rows {
				assert.Equal(t, tt.batches[i], r.Get("Batch Number"))
				assert.Equal(t, tt.qty[i], r.Get("SSCC Qty"))
			}
		})
	}
}

func TestDistinct(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, distinct([]string{"a", "b", "a"}))
	assert.Empty(t, distinct(nil))
}

func TestExport_FallbackRow(t *testing.T) {
	rows := table(t, parse(t, Export, "Olam Ref No: 4500125\nContainer No: ABCU1234567\n"), "export").Rows
	require.Len(t, rows, 1)
	assert.Equal(t, "", rows[0].Get("Batch Number"))
	assert.Equal(t, "4500125", rows[0].Get("OLAM Ref Number"))
	assert.Equal(t, "ABCU1234567", rows[0].Get("Container"))

	empty := table(t, parse(t, Export, ""), "export")
	require.Equal(t, 1, empty.Len())
	assert.Len(t, empty.Records()[0], len(schema.Export.Columns))
}

func TestExport_FumigationFallsBackToLastMention(t *testing.T) {
	text := "Fumigation: see notes\nOther\nFumigation certificate required\n"
	assert.Equal(t, "Fumigation certificate required", fumigation(text))
	assert.Equal(t, "", fumigation("nothing"))
}

func TestPalCounts(t *testing.T) {
	assert.Equal(t, []string{"22.000", "1,5"}, palCounts("22 .000 PAL\n1,5 PAL\n PAL\n"))
}

func TestCursorNeverRewinds(t *testing.T) {
	c := newCursor([]string{"1", "2"}, " PAL")
	v, ok := c.next()
	assert.True(t, ok)
	assert.Equal(t, "1 PAL", v)
	v, _ = c.next()
	assert.Equal(t, "2 PAL", v)
	_, ok = c.next()
	assert.False(t, ok)
	_, ok = c.next()
	assert.False(t, ok)
}
