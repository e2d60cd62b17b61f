// Package prompt assembles the system message placed at the head of every
// completion request.
package prompt

// PersonaInstruction is the fixed instruction shaping the model's response
// style. Process-wide, never user-editable.
const PersonaInstruction = "Explain things like you're talking to a software professional with 2 years of experience."

// referenceSeparator joins the persona instruction and an injected
// reference document. The exact text is part of the prompt contract.
const referenceSeparator = "\n\nYou also have access to this uploaded file content:\n\n"

// SystemMessage returns the system message content for a completion
// request: the persona instruction alone, or the persona instruction with
// the reference text appended under the fixed separator when referenceText
// is non-empty.
func SystemMessage(referenceText string) string {
	if referenceText == "" {
		return PersonaInstruction
	}
	return PersonaInstruction + referenceSeparator + referenceText
}
