package pipeline

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/parsingtool/internal/extract"
	"github.com/a3tai/parsingtool/internal/schema"
)

const zapiText = `OLAM Australia
Delivery 80012345
Picking request 12345678
Olam Reference AU-123/45
Customer Delivery Date 10.02.2025
Acme Foods Pty Ltd
12 Harbour Road
Port Melbourne VIC 3207
Plant/Storage location A100/S200
Gross weight 21,450.50 KG
F0123456 2 PAL
Almonds Nonpareil SSR 23/25
22.68KG ctn
393123450000000001
393123450000000002
F0654321 3 PAL
Almonds Carmel Supr 25/27 12.5KG ctn
393123450000000003
393123450000000004
`

func parse(t *testing.T, dt DocType, text string) Result {
	t.Helper()
	e, err := NewEngine(nil, nil)
	require.NoError(t, err)
	res, err := e.Parse(dt, text)
	require.NoError(t, err)
	return res
}

func table(t *testing.T, res Result, name string) schema.Table {
	t.Helper()
	tbl, ok := res.Table(name)
	require.True(t, ok, "missing table %s", name)
	return tbl
}

func TestDomestic_Headers(t *testing.T) {
	batches := table(t, parse(t, Domestic, zapiText), "batches")
	require.Equal(t, 2, batches.Len())

	row := batches.Rows[0]
	assert.Equal(t, "80012345", row.Get("Delivery Number"))
	assert.Equal(t, "12345678", row.Get("Picking Request Number"))
	assert.Equal(t, "AU-123/45", row.Get("OLAM Ref Number"))
	assert.Equal(t, "10/02/2025", row.Get("Customer Delivery Date"))
	assert.Equal(t, "A100/S200", row.Get("Plant/Storage Location"))
	assert.Equal(t, "21450.50", row.Get("Total Gross Weight"))
	assert.Equal(t, "Acme Foods Pty Ltd", row.Get("Customer"))
	assert.Equal(t, "12 Harbour Road, Port Melbourne VIC 3207", row.Get("Customer/Delivery Address"))
	assert.Equal(t, "", row.Get("Pallet"))
}

func TestDomestic_Batches(t *testing.T) {
	res := parse(t, Domestic, zapiText)
	batches := table(t, res, "batches")
	require.Equal(t, 2, batches.Len())

	first := batches.Rows[0]
	assert.Equal(t, "F0123456", first.Get("Batch Number"))
	assert.Equal(t, "2 PAL", first.Get("SSCC Qty"))
	assert.Equal(t, "Almonds Nonpareil", first.Get("Variety"))
	assert.Equal(t, "SSR", first.Get("Grade"))
	assert.Equal(t, "23/25", first.Get("Size"))
	assert.Equal(t, "22.68KG ctn", first.Get("Packaging"))

	second := batches.Rows[1]
	assert.Equal(t, "F0654321", second.Get("Batch Number"))
	assert.Equal(t, "", second.Get("SSCC Qty"), "3 PAL with 2 codes must stay blank")
	assert.Equal(t, "Almonds Carmel", second.Get("Variety"))
	assert.Equal(t, "Supr", second.Get("Grade"))
	assert.Equal(t, "12.5KG ctn", second.Get("Packaging"))

	sscc := table(t, res, "sscc")
	require.Equal(t, 4, sscc.Len())
	assert.Equal(t, "F0123456", sscc.Rows[1].Get("Batch Number"))
	assert.Equal(t, "393123450000000002", sscc.Rows[1].Get("SSCC"))
	assert.Equal(t, "F0654321", sscc.Rows[2].Get("Batch Number"))
	assert.Equal(t, "80012345", sscc.Rows[3].Get("Delivery Number"))
	assert.Equal(t, "Supr", sscc.Rows[3].Get("Grade"))
}

func TestDomestic_EveryColumnPresent(t *testing.T) {
	for _, text := range []string{zapiText, "", "F0000001\n"} {
		res := parse(t, Domestic, text)
		for _, tbl := range res.Tables {
			for _, rec := range tbl.Records() {
				assert.Len(t, rec, len(tbl.Schema.Columns))
			}
		}
	}
}

func TestDomestic_NoBlocks(t *testing.T) {
	res := parse(t, Domestic, "Delivery 80012345\nNothing else\n")
	require.Len(t, res.Tables, 2)
	assert.Equal(t, 0, res.Rows())
}

func TestSSCCQty(t *testing.T) {
	codes := func(n int) []string {
		out := make([]string, n)
		for i := range out {
			out[i] = fmt.Sprintf("39312345%010d", i)
		}
		return out
	}

	tests := []struct {
		name  string
		block extract.Block
		want  string
	}{
		{"counts agree", extract.Block{PalletHint: "22 PAL", SSCCs: codes(22)}, "22 PAL"},
		{"one short", extract.Block{PalletHint: "22 PAL", SSCCs: codes(21)}, ""},
		{"no hint", extract.Block{SSCCs: codes(3)}, ""},
		{"zero and none", extract.Block{PalletHint: "0 PAL"}, "0 PAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ssccQty(tt.block))
		})
	}
}

func TestCustomerBlock(t *testing.T) {
	lines := strings.Split("Header\nNut Traders Limited\n\nUnit 4\n1 Long St\nGross weight 10 KG", "\n")
	customer, address := customerBlock(lines)
	assert.Equal(t, "Nut Traders Limited", customer)
	assert.Equal(t, "Unit 4, 1 Long St", address)

	customer, address = customerBlock([]string{"no company here", "ltd lower case"})
	assert.Empty(t, customer)
	assert.Empty(t, address)

	customer, address = customerBlock([]string{"Last Line Pty Ltd"})
	assert.Equal(t, "Last Line Pty Ltd", customer)
	assert.Empty(t, address)
}
