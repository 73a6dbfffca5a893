package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeProduct(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  Product
	}{
		{
			name:  "grade splits variety",
			lines: []string{"Almonds Nonpareil SSR 23/25", "22.68KG ctn"},
			want: Product{
				Variety:   "Almonds Nonpareil",
				Grade:     "SSR",
				Size:      "23/25",
				Packaging: "22.68KG ctn",
			},
		},
		{
			name:  "upper-case supreme normalizes",
			lines: []string{"Almonds  Carmel SUPR 25/27"},
			want: Product{
				Variety: "Almonds Carmel",
				Grade:   "Supr",
				Size:    "25/27",
			},
		},
		{
			name:  "x no 1 variants",
			lines: []string{"Almonds Price X No.1 27/30 1T"},
			want: Product{
				Variety:   "Almonds Price",
				Grade:     "XNo1",
				Size:      "27/30",
				Packaging: "1T bag",
			},
		},
		{
			name:  "size anchors variety when no grade",
			lines: []string{"almonds monterey 20/22 25kg carton"},
			want: Product{
				Variety:   "almonds monterey",
				Size:      "20/22",
				Packaging: "25KG ctn",
			},
		},
		{
			name:  "packaging anchors variety as last resort",
			lines: []string{"almonds inshell 850kg d-sp"},
			want: Product{
				Variety:   "almonds inshell",
				Packaging: "850KG D-Sp",
			},
		},
		{
			name:  "no anchors leaves variety empty",
			lines: []string{"nothing useful here"},
			want:  Product{},
		},
		{
			name:  "empty input",
			lines: nil,
			want:  Product{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeProduct(tt.lines))
		})
	}
}

func TestNormalizePackaging(t *testing.T) {
	tests := []struct {
		number, unit, word string
		want               string
	}{
		{"12.5", "KG", "ctn", "12.5KG ctn"},
		{"1", "T", "", "1T bag"},
		{"1", "t", "", "1T bag"},
		{"25", "kg", "Carton", "25KG ctn"},
		{"850", "KG", "DSP", "850KG D-Sp"},
		{"20", "KG", "case", "20KG case"},
		{"20", "KG", "", "20KG"},
		{"20", "KG", "box", "20KG box"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePackaging(tt.number, tt.unit, tt.word))
		})
	}
}

func TestNormalizeProduct_PackagingExamples(t *testing.T) {
	assert.Equal(t, "12.5KG ctn", NormalizeProduct([]string{"12.5KG ctn"}).Packaging)
	assert.Equal(t, "1T bag", NormalizeProduct([]string{"1T"}).Packaging)
}

func TestNormalizeGrade_Idempotent(t *testing.T) {
	for _, token := range []string{"SSR", "Supr", "XNo1", "NP", "H&S Satake", ""} {
		once := NormalizeGrade(token)
		assert.Equal(t, once, NormalizeGrade(once), token)
	}
	assert.Equal(t, "SSR", NormalizeGrade("SSR"))
	assert.Equal(t, "Supr", NormalizeGrade("SUPR"))
	assert.Equal(t, "XNo1", NormalizeGrade("xno1"))
}

func TestParseProductLine(t *testing.T) {
	tests := []struct {
		name string
		desc string
		want Product
	}{
		{
			name: "reject satake",
			desc: "Almonds Kern Non Var H&S Satake",
			want: Product{
				Variety:   "Almonds Kern Non Var",
				Grade:     "H&S Satake",
				Size:      "N/A",
				Packaging: "Bulk Bags",
			},
		},
		{
			name: "reject drops KG token",
			desc: "Almonds Kern Non Var H&S Beltuza KG",
			want: Product{
				Variety:   "Almonds Kern Non Var",
				Grade:     "H&S Beltuza",
				Size:      "N/A",
				Packaging: "Bulk Bags",
			},
		},
		{
			name: "reject without non var prefix",
			desc: "Almonds Mfg Splits&Brokens",
			want: Product{
				Variety:   "Almonds Kern Non Var",
				Grade:     "Almonds Mfg Splits&Brokens",
				Size:      "N/A",
				Packaging: "Bulk Bags",
			},
		},
		{
			name: "normal product",
			desc: "Almonds Kern Carm Supr 25/27 50lb ctn",
			want: Product{
				Variety:   "Almonds Kern Carm",
				Grade:     "Supr",
				Size:      "25/27",
				Packaging: "50lb ctn",
			},
		},
		{
			name: "size with reject word is not a reject",
			desc: "Almonds Kern Carm SSR 25/27 splits 22.68KG ctn",
			want: Product{
				Variety:   "Almonds Kern Carm",
				Grade:     "SSR",
				Size:      "25/27",
				Packaging: "22.68KG ctn",
			},
		},
		{
			name: "blank",
			desc: "   ",
			want: Product{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseProductLine(tt.desc))
		})
	}
}

func TestIsReject(t *testing.T) {
	assert.True(t, IsReject("Almonds Kern Non Var H&S Satake"))
	assert.True(t, IsReject("ALMONDS BROKENS"))
	assert.False(t, IsReject("Almonds Kern Carm Supr 25/27 50lb ctn"))
	assert.False(t, IsReject("Almonds Kern Carm Supr 25 / 27 splits"))
	assert.False(t, IsReject("Almonds Kern Carm Supr"))
}
