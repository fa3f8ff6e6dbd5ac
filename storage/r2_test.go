package storage

import (
	"net/url"
	"testing"
)

func TestPublicURL(t *testing.T) {
	tests := []struct {
		name string
		base string
		key  string
		want string
	}{
		{name: "host only", base: "https://cdn.example.com/", key: "games/mk1-abc.png", want: "https://cdn.example.com/games/mk1-abc.png"},
		{name: "with path", base: "https://cdn.example.com/media/", key: "players/sonic.png", want: "https://cdn.example.com/media/players/sonic.png"},
		{name: "leading slash key", base: "https://cdn.example.com/media/", key: "/flags/ua.svg", want: "https://cdn.example.com/media/flags/ua.svg"},
		{name: "empty key", base: "https://cdn.example.com/", key: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, err := url.Parse(tt.base)
			if err != nil {
				t.Fatal(err)
			}
			if got := publicURL(base, tt.key); got != tt.want {
				t.Fatalf("publicURL = %q, want %q", got, tt.want)
			}
		})
	}
}
