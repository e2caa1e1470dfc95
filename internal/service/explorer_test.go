package service

import "testing"

func TestExplorerURL(t *testing.T) {
	const host = "finder.extraterrestrial.money"

	tests := []struct {
		name    string
		chainID string
		markers []string
		want    string
	}{
		{
			name:    "bombay is testnet",
			chainID: "bombay-12",
			markers: DefaultTestnetMarkers,
			want:    "https://finder.extraterrestrial.money/testnet/tx/ABC123",
		},
		{
			name:    "pisco is testnet",
			chainID: "pisco-1",
			markers: DefaultTestnetMarkers,
			want:    "https://finder.extraterrestrial.money/testnet/tx/ABC123",
		},
		{
			name:    "columbus is mainnet",
			chainID: "columbus-5",
			markers: DefaultTestnetMarkers,
			want:    "https://finder.extraterrestrial.money/mainnet/tx/ABC123",
		},
		{
			name:    "custom marker",
			chainID: "localterra",
			markers: []string{"local"},
			want:    "https://finder.extraterrestrial.money/testnet/tx/ABC123",
		},
		{
			name:    "no markers",
			chainID: "bombay-12",
			markers: nil,
			want:    "https://finder.extraterrestrial.money/mainnet/tx/ABC123",
		},
		{
			name:    "empty marker matches nothing",
			chainID: "columbus-5",
			markers: []string{""},
			want:    "https://finder.extraterrestrial.money/mainnet/tx/ABC123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExplorerURL(host, tt.chainID, tt.markers, "ABC123"); got != tt.want {
				t.Errorf("ExplorerURL() = %s, want %s", got, tt.want)
			}
		})
	}
}
