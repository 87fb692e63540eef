package mcpserver

// TemplateFormatContract describes the template model that LLM consumers
// should follow when creating or updating note templates.
const TemplateFormatContract = `# Othala Template Contract

Every note template stored in Othala is a plain-text snippet with three
fields.

## Fields

- **category** — REQUIRED. One of the registered categories:
  LimitedExam, Surgery, HygieneExam, PeriodicExam, ComprehensiveExam.
  The set is closed; no other value is accepted.
- **id** — a unique 10-digit number. Assigned by Othala on creation; never
  invent one yourself. Pass it back verbatim when reading, updating, or
  deleting.
- **note** — the template body. Plain text, may be empty, may span multiple
  lines. No markup is interpreted.

## Rules

1. Create with ` + "`create_template`" + ` (category + note); the result includes the
   assigned id.
2. An id identifies a template across categories: updating with a different
   category moves the template there, keeping the id.
3. Deleting frees the id; do not expect it to stay reserved.
4. Changes made through the tools are persisted to the records file
   immediately.
`
