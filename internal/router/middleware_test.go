package router

import "testing"

func TestResolveAllowedOrigin(t *testing.T) {
	cases := []struct {
		name             string
		origin           string
		allowed          []string
		allowCredentials bool
		want             string
	}{
		{"通配符", "https://a.example.com", []string{"*"}, false, "*"},
		{"通配符带凭证回显来源", "https://a.example.com", []string{"*"}, true, "https://a.example.com"},
		{"白名单命中", "https://admin.example.com", []string{"https://admin.example.com"}, false, "https://admin.example.com"},
		{"白名单大小写不敏感", "https://Admin.Example.com", []string{"https://admin.example.com"}, false, "https://Admin.Example.com"},
		{"白名单未命中", "https://evil.example.com", []string{"https://admin.example.com"}, false, ""},
		{"无来源头", "", []string{"https://admin.example.com"}, false, ""},
		{"空白名单", "https://a.example.com", nil, false, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := resolveAllowedOrigin(tc.origin, tc.allowed, tc.allowCredentials)
			if got != tc.want {
				t.Fatalf("期望 %q，得到 %q", tc.want, got)
			}
		})
	}
}
