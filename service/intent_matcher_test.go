package service

import (
	"slices"
	"strings"
	"testing"

	"nebify-credit/domain"
)

func TestClassify_CreditScore(t *testing.T) {
	matcher := NewIntentMatcher()
	session := &domain.ChatSession{}

	reply := matcher.Classify("What's my credit score?", session)

	if reply.MatchedIntent != "credit_score" {
		t.Fatalf("expected credit_score, got %q", reply.MatchedIntent)
	}
	if session.LastIntent != "credit_score" {
		t.Errorf("expected session last intent credit_score, got %q", session.LastIntent)
	}
	if !slices.Contains(reply.Suggestions, "Score Factors") {
		t.Errorf("expected Score Factors suggestion, got %v", reply.Suggestions)
	}
	if !strings.Contains(reply.HTML, `href="credit-overview.html"`) {
		t.Errorf("expected link to credit overview, got %s", reply.HTML)
	}
}

func TestClassify_NamePersonalizesGreeting(t *testing.T) {
	matcher := NewIntentMatcher()
	session := &domain.ChatSession{}

	matcher.Classify("my name is Sam", session)
	if session.UserName != "Sam" {
		t.Fatalf("expected user name Sam, got %q", session.UserName)
	}

	reply := matcher.Classify("hello", session)
	if !strings.Contains(reply.HTML, ", Sam") {
		t.Errorf("expected greeting to contain \", Sam\", got %s", reply.HTML)
	}
}

func TestClassify_GreetingWithoutName(t *testing.T) {
	reply := NewIntentMatcher().Classify("HELLO", &domain.ChatSession{})

	if reply.MatchedIntent != "greet" {
		t.Fatalf("expected greet, got %q", reply.MatchedIntent)
	}
	if !strings.HasPrefix(reply.HTML, "🤖 Hello! Welcome to Nebify.") {
		t.Errorf("unexpected greeting: %s", reply.HTML)
	}
}

func TestClassify_FirstMatchWins(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		// "account" is also a credit-mix keyword
		{"How do I close an account?", "account_help"},
		// "accounts" hits portfolio before account_help and credit_mix
		{"Show my accounts", "portfolio"},
		{"Tell me about credit mix and account types", "account_help"},
		{"hi there, what is my score", "greet"},
		{"I need to reset password", "password_reset"},
		{"How do I sign in", "login"},
		{"What's my credit utilization?", "credit_utilization"},
		{"fix an error in my report", "disputes"},
		{"Is there fraud on my file?", "fraud"},
		{"What does it cost?", "pricing"},
		{"Can I talk to someone?", "contact"},
		{"thank you", "thanks"},
		{"Monitoring", "monitoring"},
	}

	matcher := NewIntentMatcher()
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := matcher.Classify(tt.input, &domain.ChatSession{})
			if got.MatchedIntent != tt.want {
				t.Errorf("expected %s, got %q", tt.want, got.MatchedIntent)
			}
		})
	}
}

func TestClassify_Fallback(t *testing.T) {
	matcher := NewIntentMatcher()
	session := &domain.ChatSession{UserName: "Ana", LastIntent: "greet"}

	reply := matcher.Classify("zzz", session)

	if reply.MatchedIntent != "" {
		t.Errorf("expected no intent, got %q", reply.MatchedIntent)
	}
	if !strings.Contains(reply.HTML, "I didn't understand your question, Ana.") {
		t.Errorf("unexpected fallback: %s", reply.HTML)
	}
	if !slices.Equal(reply.Suggestions, defaultSuggestions) {
		t.Errorf("expected default suggestions, got %v", reply.Suggestions)
	}
	if session.LastIntent != "greet" {
		t.Errorf("fallback should leave last intent alone, got %q", session.LastIntent)
	}
}

func TestClassify_NilSession(t *testing.T) {
	reply := NewIntentMatcher().Classify("hello", nil)
	if reply.MatchedIntent != "greet" {
		t.Errorf("expected greet, got %q", reply.MatchedIntent)
	}
}

func TestClassify_SuggestionsCapped(t *testing.T) {
	many := rule("many", `many`, fixed("lots", "a", "b", "c", "d", "e", "f", "g", "h"))
	matcher := NewIntentMatcher(many)

	reply := matcher.Classify("so many options", &domain.ChatSession{})

	if len(reply.Suggestions) != MaxSuggestions {
		t.Errorf("expected %d suggestions, got %d", MaxSuggestions, len(reply.Suggestions))
	}

	for _, r := range DefaultRules() {
		if n := len(r.Reply(&domain.ChatSession{}).Suggestions); n > MaxSuggestions {
			t.Errorf("rule %s has %d suggestions", r.Name, n)
		}
	}
}

func TestDefaultRules_Order(t *testing.T) {
	rules := DefaultRules()

	want := []string{
		"greet", "credit_score", "portfolio", "risk_assessment", "account_help",
		"register", "login", "password_reset", "notifications", "reports",
		"improve_score", "payment_history", "credit_utilization", "new_credit",
		"credit_mix", "disputes", "monitoring", "fraud", "pricing", "features",
		"contact", "thanks",
	}
	got := make([]string, 0, len(rules))
	for _, r := range rules {
		got = append(got, r.Name)
	}

	if !slices.Equal(got, want) {
		t.Errorf("unexpected rule order:\n got %v\nwant %v", got, want)
	}
}

func TestExtractName(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"my name is Sam", "Sam", true},
		{"MY NAME IS john", "john", true},
		{"I am Sarah", "Sarah", true},
		{"I'm Michael", "Michael", true},
		{"my name is Sam and I'm Tom", "Sam", true},
		{"my name is 42", "", false},
		{"nothing here", "", false},
	}

	for _, tt := range tests {
		got, ok := ExtractName(tt.input)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ExtractName(%q) = %q, %v; want %q, %v", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}

func TestClassify_NameOverwritten(t *testing.T) {
	matcher := NewIntentMatcher()
	session := &domain.ChatSession{}

	matcher.Classify("I am Ann", session)
	matcher.Classify("actually my name is Bob", session)

	if session.UserName != "Bob" {
		t.Errorf("expected Bob, got %q", session.UserName)
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize("  Credit SCORE  "); got != "credit score" {
		t.Errorf("unexpected normalized text %q", got)
	}
}
