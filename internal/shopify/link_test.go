package shopify

import "testing"

func TestNextPageURL(t *testing.T) {
	next := "https://shop1.test/admin/api/2023-07/orders.json?limit=250&page_info=abc"
	prev := "https://shop1.test/admin/api/2023-07/orders.json?limit=250&page_info=xyz"

	cases := []struct {
		name   string
		header string
		want   string
	}{
		{"empty header", "", ""},
		{"next only", `<` + next + `>; rel="next"`, next},
		{"prev only", `<` + prev + `>; rel="previous"`, ""},
		{"prev then next", `<` + prev + `>; rel="previous", <` + next + `>; rel="next"`, next},
		{"next then prev", `<` + next + `>; rel="next", <` + prev + `>; rel="previous"`, next},
		{"segment without rel", `<` + next + `>`, ""},
		{"garbage", "not a link header", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NextPageURL(tc.header); got != tc.want {
				t.Errorf("NextPageURL(%q) = %q, want %q", tc.header, got, tc.want)
			}
		})
	}
}
