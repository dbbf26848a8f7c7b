package rewrite

// ClarificationMarker is appended by the rewrite model when the prompt
// contains contradictions it cannot resolve.
const ClarificationMarker = "<needs_clarification>true</needs_clarification>"

// instructions is the system prompt for the rewrite pass. The user prompt is
// delivered wrapped in <prompt> tags.
const instructions = `Given the prompt provided inside the <prompt> tags, improve the prompt and do no other actions like generate code or answer questions.
- Translate any text which is not English into English, whilst retaining the original meaning and keeping technical terms like "Python" or anything in backticks as-is.
- Fix any spelling or grammatical errors.
- If there are contradictory instructions, resolve them in a sensible way.
- If you cannot resolve contradictions, response with a question asking for clarification and the tag ` + ClarificationMarker + ` at the end of your response.
Respond with the original prompt if no improvements are needed.`
