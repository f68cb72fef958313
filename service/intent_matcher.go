package service

import (
	"fmt"
	"regexp"
	"strings"

	"nebify-credit/domain"
)

// IntentRule pairs a keyword pattern with the canned reply it triggers.
type IntentRule struct {
	Name    string
	Pattern *regexp.Regexp
	Reply   func(session *domain.ChatSession) domain.Reply
}

func (r IntentRule) Match(raw string) bool {
	return r.Pattern.MatchString(raw)
}

var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)my name is\s+([A-Za-z]+)\b`),
	regexp.MustCompile(`(?i)i am\s+([A-Za-z]+)\b`),
	regexp.MustCompile(`(?i)i'm\s+([A-Za-z]+)\b`),
}

var defaultSuggestions = []string{"Credit Score", "Portfolio", "Risk Assessment", "Account Help"}

// Normalize lowercases and trims text. Rules match against the raw text.
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// ExtractName returns the name introduced in raw, if any. The first pattern
// that matches wins.
func ExtractName(raw string) (string, bool) {
	for _, p := range namePatterns {
		if m := p.FindStringSubmatch(raw); len(m) > 1 && m[1] != "" {
			return m[1], true
		}
	}
	return "", false
}

func nameSuffix(session *domain.ChatSession) string {
	if session == nil || session.UserName == "" {
		return ""
	}
	return ", " + session.UserName
}

func fixed(html string, suggestions ...string) func(*domain.ChatSession) domain.Reply {
	return func(*domain.ChatSession) domain.Reply {
		return domain.Reply{HTML: html, Suggestions: suggestions}
	}
}

func rule(name, pattern string, reply func(*domain.ChatSession) domain.Reply) IntentRule {
	return IntentRule{Name: name, Pattern: regexp.MustCompile(`(?i)(` + pattern + `)`), Reply: reply}
}

// DefaultRules is the ordered rule table. Order is significant: keyword sets
// overlap and the first matching rule wins.
func DefaultRules() []IntentRule {
	return []IntentRule{
		rule("greet", `hello|hi|hey|greetings|good morning|good afternoon`, func(s *domain.ChatSession) domain.Reply {
			return domain.Reply{
				HTML:        fmt.Sprintf("🤖 Hello%s! Welcome to Nebify. How can I assist you with your credit management today?", nameSuffix(s)),
				Suggestions: defaultSuggestions,
			}
		}),
		rule("credit_score", `credit score|score|credit rating|credit report`, fixed(
			`📊 You can check your credit score and detailed report from the <a href="credit-overview.html" target="_blank">Credit Overview</a> page. Would you like help understanding your score factors?`,
			"Score Factors", "Improve Score", "Credit Report", "Monitoring")),
		rule("portfolio", `portfolio|accounts|investments|assets`, fixed(
			`📈 Access your complete portfolio dashboard at <a href="credit-overview.html" target="_blank">Credit Overview</a>. You can monitor all your accounts, track performance, and get insights in real-time.`,
			"Account Details", "Performance", "Risk Analysis", "Reports")),
		rule("risk_assessment", `risk|assessment|analysis|evaluate|rating`, fixed(
			`⚡ Our advanced risk assessment tools are available in your <a href="credit-overview.html" target="_blank">dashboard</a>. Get real-time risk scores, predictive analytics, and actionable recommendations.`,
			"Risk Score", "Predictive Analysis", "Recommendations", "Alerts")),
		rule("account_help", `account|login|access|help|support|trouble`, fixed(
			`🔐 For account-related assistance, visit your <a href="profile.html" target="_blank">Profile</a> page or <a href="login.html" target="_blank">sign in</a> if you're not already logged in. What specific help do you need?`,
			"Reset Password", "Account Settings", "Login Help", "Contact Support")),
		rule("register", `register|signup|join|create account|new account`, fixed(
			`📝 Ready to get started? Create your account at our <a href="register.html" target="_blank">registration page</a>. Already have an account? <a href="login.html" target="_blank">Sign in here</a>.`,
			"Sign In", "Account Setup", "Features", "Pricing")),
		rule("login", `login|signin|sign in|access account`, fixed(
			`🔑 Sign in to your account <a href="login.html" target="_blank">here</a> to access all features including real-time monitoring, detailed analytics, and personalized insights.`,
			"Forgot Password", "Create Account", "Account Help")),
		rule("password_reset", `forgot password|reset password|lost password|password help`, fixed(
			`🔁 Reset your password securely from our <a href="login.html" target="_blank">login page</a>. Click "Forgot Password" to receive reset instructions via email.`,
			"Sign In", "Create Account", "Support")),
		rule("notifications", `notifications|alerts|updates|messages`, fixed(
			`🔔 Manage your notifications and alerts in the <a href="notifications.html" target="_blank">Notifications</a> section. Set up real-time alerts for score changes, risk factors, and important updates.`,
			"Alert Settings", "Credit Alerts", "Risk Alerts", "Email Preferences")),
		rule("reports", `reports|analytics|insights|data|statistics`, fixed(
			`📊 Access comprehensive reports and analytics in your <a href="credit-overview.html" target="_blank">Credit Overview</a>. Get detailed insights, trends, and performance metrics for informed decision-making.`,
			"Monthly Reports", "Trend Analysis", "Performance", "Custom Reports")),
		rule("improve_score", `improve|increase|boost|raise|better|enhance`, fixed(
			`💡 Improving your credit score takes time and consistent effort. Key factors include: timely payments, low credit utilization, credit history length, and diverse account types. Check our <a href="credit-overview.html" target="_blank">dashboard</a> for personalized tips.`,
			"Score Factors", "Best Practices", "Timeline", "Professional Help")),
		rule("payment_history", `payment|payments|history|record|delinquent|late`, fixed(
			`💳 Payment history is crucial for your credit score (35% weight). Always pay on time and consider automatic payments. Review your payment history in the <a href="credit-overview.html" target="_blank">Credit Overview</a> section.`,
			"Payment Tips", "Auto-Pay Setup", "Late Payments", "Credit Impact")),
		rule("credit_utilization", `utilization|balance|debt|ratio|limit`, fixed(
			`📈 Credit utilization (30% of score) should stay below 30%. High utilization signals risk to lenders. Monitor your utilization ratio in real-time through our <a href="credit-overview.html" target="_blank">dashboard</a>.`,
			"Utilization Tips", "Debt Management", "Limit Increases", "Payoff Strategies")),
		rule("new_credit", `new credit|application|inquiry|hard pull|new account`, fixed(
			`🔍 New credit applications create hard inquiries that temporarily lower your score. Space out applications and only apply when necessary. Track inquiries in your <a href="credit-overview.html" target="_blank">Credit Overview</a>.`,
			"When to Apply", "Inquiry Impact", "Rate Shopping", "Account Management")),
		rule("credit_mix", `mix|diversity|types|variety|accounts`, fixed(
			`🎯 A diverse credit mix (10% of score) shows you can handle different types of credit responsibly. This includes credit cards, loans, and mortgages. Our analytics can help optimize your credit mix.`,
			"Account Types", "Balance Strategy", "Risk Assessment", "Portfolio Tips")),
		rule("disputes", `dispute|error|mistake|incorrect|wrong|fix`, fixed(
			`⚖️ Found an error on your credit report? Use our <a href="disputes.html" target="_blank">Disputes</a> tool to file and track disputes with credit bureaus. We guide you through the entire process.`,
			"File Dispute", "Track Status", "Common Errors", "Success Rate")),
		rule("monitoring", `monitor|watch|track|surveillance|alerts`, fixed(
			`👁️ 24/7 credit monitoring is essential for early detection of issues. Set up alerts for score changes, new accounts, and suspicious activity in your <a href="notifications.html" target="_blank">Notifications</a> settings.`,
			"Alert Setup", "Real-time Updates", "Security", "Fraud Protection")),
		rule("fraud", `fraud|identity theft|stolen|security|protection`, fixed(
			`🛡️ Fraud protection is critical. If you suspect identity theft, immediately review your <a href="credit-overview.html" target="_blank">full report</a> and file a dispute. We also recommend placing fraud alerts with credit bureaus.`,
			"Fraud Alerts", "Identity Theft", "Security Tips", "Recovery Steps")),
		rule("pricing", `pricing|cost|fees|plans|subscription|payment`, fixed(
			`💰 View our enterprise pricing plans and features on the <a href="#pricing" target="_blank">Pricing</a> section. We offer flexible plans for institutions of all sizes with volume discounts available.`,
			"Compare Plans", "Enterprise", "Free Trial", "Custom Pricing")),
		rule("features", `features|capabilities|tools|functions|what can you do`, fixed(
			`🚀 Nebify offers comprehensive credit management tools: real-time monitoring, predictive analytics, risk assessment, automated reporting, and expert insights. Explore all features in our <a href="#features" target="_blank">Features</a> section.`,
			"Monitoring", "Analytics", "Risk Assessment", "Reporting")),
		rule("contact", `contact|support|help|talk|speak|reach`, fixed(
			`📞 Need personalized assistance? Contact our support team through the <a href="#contact" target="_blank">Contact</a> section or email us directly. Enterprise clients get priority support and dedicated account managers.`,
			"Email Support", "Phone Support", "Account Manager", "Documentation")),
		rule("thanks", `thanks|thank you|appreciate|grateful`, fixed(
			`🙏 You're very welcome! Is there anything else I can help you with regarding your credit management?`,
			defaultSuggestions...)),
	}
}

type IntentMatcher struct {
	rules []IntentRule
}

// NewIntentMatcher builds a matcher over rules, or over DefaultRules when
// none are given.
func NewIntentMatcher(rules ...IntentRule) *IntentMatcher {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &IntentMatcher{rules: rules}
}

// Classify extracts a name into session, then returns the reply of the first
// matching rule and records its name as the session's last intent. Text that
// matches nothing gets the fallback reply. Classify never fails.
func (m *IntentMatcher) Classify(raw string, session *domain.ChatSession) domain.Reply {
	if session == nil {
		session = &domain.ChatSession{}
	}

	if name, ok := ExtractName(raw); ok {
		session.UserName = name
	}

	for _, r := range m.rules {
		if !r.Match(raw) {
			continue
		}
		session.LastIntent = r.Name
		reply := r.Reply(session)
		reply.MatchedIntent = r.Name
		reply.Suggestions = capSuggestions(reply.Suggestions)
		return reply
	}

	return domain.Reply{
		HTML:        fmt.Sprintf(`🤖 I didn't understand your question%s. Try using keywords like: "credit score", "portfolio", "risk assessment", or "account help".`, nameSuffix(session)),
		Suggestions: capSuggestions(defaultSuggestions),
	}
}

func capSuggestions(in []string) []string {
	n := min(len(in), MaxSuggestions)
	out := make([]string, n)
	copy(out, in[:n])
	return out
}
