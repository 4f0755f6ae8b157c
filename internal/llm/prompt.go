package llm

import (
	"strings"
	"unicode/utf8"
)

// MaxDocumentChars caps how much document text is placed in a prompt.
const MaxDocumentChars = 30000

const analystPreamble = `You are a legal document analyst. Explain legal documents in plain language for a non-lawyer.`

const summaryInstructions = `Provide a structured summary of the document with these sections:
1. Document type and purpose
2. Parties involved
3. Key terms and obligations
4. Important dates and deadlines
5. Risks, unusual clauses or red flags
6. Recommended next steps
Do not invent facts that are not in the document.`

const questionInstructions = `Answer the question using only the document. If the document does not contain the answer, say so.`

// AnalyzePrompt assembles the single-shot prompt for a summary or a question.
func AnalyzePrompt(req AnalyzeRequest) string {
	var b strings.Builder
	b.WriteString(analystPreamble)
	b.WriteString("\n\n")
	writeDocument(&b, req.DocumentText)

	question := strings.TrimSpace(req.Question)
	if question == "" {
		b.WriteString(summaryInstructions)
		return b.String()
	}

	b.WriteString(questionInstructions)
	b.WriteString("\n\n")
	if transcript := Transcript(req.Prior); transcript != "" {
		b.WriteString("Conversation so far:\n")
		b.WriteString(transcript)
		b.WriteString("\n")
	}
	b.WriteString("User: ")
	b.WriteString(question)
	b.WriteString("\nAssistant:")
	return b.String()
}

// ChatInstruction is the system context for a conversation. The document is
// included when the chat is about one.
func ChatInstruction(documentText string) string {
	var b strings.Builder
	b.WriteString(analystPreamble)
	b.WriteString(" Keep answers concise and point to the relevant clause when you can.")
	if strings.TrimSpace(documentText) == "" {
		b.WriteString(" No document is attached; answer general legal questions and remind the user you are not a lawyer.")
		return b.String()
	}
	b.WriteString("\n\n")
	writeDocument(&b, documentText)
	return strings.TrimRight(b.String(), "\n")
}

// WithTranscript prefixes message with turns that could not be sent as
// structured history. The message is returned unchanged when there are none.
func WithTranscript(pending []Turn, message string) string {
	message = strings.TrimSpace(message)
	transcript := Transcript(pending)
	if transcript == "" {
		return message
	}
	return transcript + "User: " + message
}

// Transcript renders turns as "User: ..." and "Assistant: ..." lines.
// Empty turns are skipped.
func Transcript(turns []Turn) string {
	var b strings.Builder
	for _, t := range turns {
		content := strings.TrimSpace(t.Content)
		if content == "" {
			continue
		}
		if t.Role == RoleAssistant {
			b.WriteString("Assistant: ")
		} else {
			b.WriteString("User: ")
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	return b.String()
}

// Truncate cuts text to at most limit runes.
func Truncate(text string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit])
}

func writeDocument(b *strings.Builder, text string) {
	b.WriteString("Document:\n\"\"\"\n")
	b.WriteString(Truncate(strings.TrimSpace(text), MaxDocumentChars))
	b.WriteString("\n\"\"\"\n\n")
}
