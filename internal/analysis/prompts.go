package analysis

const schema = `Respond with a single JSON object and nothing else, using exactly these keys:
{
  "title": string,
  "executive_summary": string,
  "key_points": [string],
  "decisions": [string],
  "action_items": [{"owner": string, "task": string, "due": string}],
  "missing_questions": [string],
  "process_steps": [{"id": string, "label": string, "next": [string]}],
  "user_stories": [{"as_a": string, "i_want": string, "so_that": string, "acceptance_criteria": [string]}],
  "sections": [{"heading": string, "body": string}]
}
Use empty arrays for anything the meeting did not cover. "body" may use markdown bullets and **bold**.
"process_steps" describes the business process discussed, in order; "next" lists the ids of following steps.
"missing_questions" lists questions an analyst should still ask the client.`

var systemPrompts = map[DocType]string{
	MeetingSummary: `You are a business analyst writing a meeting summary for a client engagement.
Summarize the meeting transcript faithfully: the purpose, the main discussion points in order,
the decisions taken and the follow-up actions with owners. Do not invent facts.`,

	KnowledgeTransfer: `You are a senior consultant writing a knowledge-transfer document from a recorded
walkthrough. Capture the systems, screens, steps and business rules explained, as sections a new
team member could follow without watching the recording. Quote exact names of screens, fields and
reports. Do not invent facts.`,

	UserStories: `You are a product owner turning a requirements meeting into user stories.
Write one user story per distinct need voiced in the meeting, each with testable acceptance
criteria. Put the overall context in executive_summary. Do not invent requirements.`,
}

const topicsPrompt = `For each numbered transcript line below, give a topic label of at most four words.
Respond with a JSON array of strings, one per line, in the same order.`
