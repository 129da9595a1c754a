package service

import (
	"fmt"
	"regexp"
	"strings"

	"loan-advisor/domain"
)

const recommendationSystemPrompt = `You are a loan advisor for Indian retail lending. Answer with a single JSON object and nothing else, using exactly these keys:
{"eligibility": "Eligible" | "Partially Eligible" | "Not Eligible",
 "approvalChance": "percentage, e.g. 78%",
 "monthlyEMI": number in rupees,
 "riskLevel": "Low" | "Medium" | "High",
 "recommendedBanks": [bank names],
 "interestRates": [annual rate per recommended bank, same order, e.g. "10.5%"],
 "processingTime": "e.g. 3-5 working days",
 "suggestions": [short actionable tips]}`

// retrievalQuery is the text embedded to select reference chunks.
func retrievalQuery(a domain.Applicant) string {
	return fmt.Sprintf(
		"%s loan of ₹%.0f for a %d year old %s applicant with income ₹%.0f and CIBIL score %.0f: eligibility, interest rates and lenders",
		strings.ToLower(string(a.LoanType)), a.Amount, a.Age, strings.ToLower(a.MaritalLabel()), a.Income, a.CibilScore,
	)
}

func recommendationPrompt(a domain.Applicant, reference string) string {
	var b strings.Builder
	if reference != "" {
		b.WriteString("Use the following reference material where it applies:\n\n")
		b.WriteString(reference)
		b.WriteString("\n\n")
	} else {
		b.WriteString("No reference material is available; rely on general knowledge of Indian lenders.\n\n")
	}

	b.WriteString("Give loan recommendation in JSON for:\n")
	fmt.Fprintf(&b, "Name: %s\n", a.Name)
	fmt.Fprintf(&b, "Age: %d\n", a.Age)
	fmt.Fprintf(&b, "Income: %.0f\n", a.Income)
	fmt.Fprintf(&b, "Loan Type: %s\n", a.LoanType)
	fmt.Fprintf(&b, "Amount: %.0f\n", a.Amount)
	if a.TenureMonth > 0 {
		fmt.Fprintf(&b, "Tenure: %d months\n", a.TenureMonth)
	}
	fmt.Fprintf(&b, "CIBIL: %.0f\n", a.CibilScore)
	fmt.Fprintf(&b, "Marital Status: %s\n", a.MaritalLabel())
	return b.String()
}

const chatGuidelines = `Response Guidelines:
1. Be helpful, professional, and conversational
2. Use the user's profile data for personalized responses
3. Focus on loan-related topics (eligibility, documentation, processes, etc.)
4. Provide accurate information about Indian banking and loan processes
5. Structure your responses clearly with proper formatting
6. Use bullet points for lists and clear paragraphs for explanations
7. Keep responses comprehensive but easy to read
8. Use simple language without excessive technical jargon
9. Be encouraging and supportive
10. If asked about topics outside loan/banking, politely redirect to loan topics

Format your response clearly:
- Use bullet points for lists
- Use numbered steps for processes
- Break information into clear paragraphs
- Avoid using # markdown headers
- Use **bold** for emphasis sparingly
- Provide practical, actionable advice`

// chatSystemPrompt grounds the assistant in the session's result. result is
// nil when the session has none yet.
func chatSystemPrompt(result *domain.RecommendationResult) string {
	var b strings.Builder
	if result == nil {
		b.WriteString("You are a helpful and professional loan advisor assistant. The user has not submitted a loan application yet.\n\n")
		b.WriteString(chatGuidelines)
		return b.String()
	}

	a := result.Applicant
	r := result.Recommendation
	b.WriteString("You are a helpful and professional loan advisor assistant. The user has received loan recommendations based on their profile.\n\n")
	b.WriteString("User Profile:\n")
	fmt.Fprintf(&b, "- Name: %s\n", a.Name)
	fmt.Fprintf(&b, "- Age: %d\n", a.Age)
	fmt.Fprintf(&b, "- Income: ₹%.0f\n", a.Income)
	fmt.Fprintf(&b, "- Loan Type: %s\n", a.LoanType)
	fmt.Fprintf(&b, "- Amount: ₹%.0f\n", a.Amount)
	fmt.Fprintf(&b, "- CIBIL Score: %.0f\n", a.CibilScore)
	fmt.Fprintf(&b, "- Marital Status: %s\n\n", a.MaritalLabel())

	b.WriteString("Loan Recommendations:\n")
	fmt.Fprintf(&b, "- Eligibility: %s\n", r.Eligibility)
	fmt.Fprintf(&b, "- Monthly EMI: ₹%.2f\n", float64(r.MonthlyEMI))
	fmt.Fprintf(&b, "- Risk Level: %s\n", r.RiskLevel)
	fmt.Fprintf(&b, "- Recommended Banks: %s\n", strings.Join(r.RecommendedBanks, ", "))
	fmt.Fprintf(&b, "- Interest Rates: %s\n", strings.Join(r.InterestRates, ", "))
	fmt.Fprintf(&b, "- Processing Time: %s\n\n", r.ProcessingTime)

	b.WriteString(chatGuidelines)
	return b.String()
}

func chatUserPrompt(question string) string {
	return "User Question: " + question
}

var markdownHeader = regexp.MustCompile(`(?m)^#{1,6}\s+`)

// stripMarkdownHeaders drops leading # markers the model emits despite the
// formatting rules.
func stripMarkdownHeaders(text string) string {
	return strings.TrimSpace(markdownHeader.ReplaceAllString(text, ""))
}
