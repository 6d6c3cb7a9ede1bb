package remote

import (
	"testing"
)

func TestParseTarget(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Target
		wantErr bool
	}{
		{"user and host", "root@server1", Target{User: "root", Host: "server1", Port: "22"}, false},
		{"explicit port", "admin@10.0.0.5:2222", Target{User: "admin", Host: "10.0.0.5", Port: "2222"}, false},
		{"fqdn", "deploy@db-01.example.com", Target{User: "deploy", Host: "db-01.example.com", Port: "22"}, false},
		{"user with dot and dash", "ci.bot-2@build", Target{User: "ci.bot-2", Host: "build", Port: "22"}, false},

		{"missing user", "server1", Target{}, true},
		{"missing host", "root@", Target{}, true},
		{"empty", "", Target{}, true},
		{"non numeric port", "root@server1:ssh", Target{}, true},
		{"leading dash in host", "root@-server", Target{}, true},
		{"contains space", "root@my server", Target{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTarget(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTarget(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParseTarget(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTargetAddr(t *testing.T) {
	target := Target{User: "root", Host: "server1", Port: "2222"}
	if got := target.Addr(); got != "server1:2222" {
		t.Errorf("Addr() = %q, want %q", got, "server1:2222")
	}
}
