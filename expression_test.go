package discussx

import "testing"

func TestExpressionString(t *testing.T) {
	tests := []struct {
		name string
		expr Expression
		want string
	}{
		{"term", Term("vercel"), "vercel"},
		{"term with space is quoted", Term("next js"), `"next js"`},
		{"phrase", Phrase("vercel vs netlify"), `"vercel vs netlify"`},
		{"phrase escapes quotes", Phrase(`say "hi"`), `"say \"hi\""`},
		{"empty phrase", Phrase("  "), ""},
		{"title", InTitle("vercel"), `title:"vercel"`},
		{"and", And(Term("vercel"), Term("netlify")), "vercel AND netlify"},
		{"title and", And(InTitle("vercel"), InTitle("netlify")), `title:"vercel" AND title:"netlify"`},
		{"or", Or(Phrase("vercel or netlify"), Phrase("netlify or vercel")), `"vercel or netlify" OR "netlify or vercel"`},
		{"nested compound is parenthesized", And(Or(Term("a"), Term("b")), Term("c")), "(a OR b) AND c"},
		{"single child is not parenthesized", And(Or(Term("a"))), "a"},
		{"and skips empty children", And(Term("a"), Phrase(""), nil, Term("b")), "a AND b"},
		{"not", Not(Term("aws")), "NOT aws"},
		{"not compound", Not(Or(Term("a"), Term("b"))), "NOT (a OR b)"},
		{"not nil", Not(nil), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.expr.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsEmpty(t *testing.T) {
	tests := []struct {
		name string
		expr Expression
		want bool
	}{
		{"nil", nil, true},
		{"empty and", And(), true},
		{"blank phrase", Phrase(" "), true},
		{"term", Term("vercel"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsEmpty(tt.expr); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}
