/*
Package feedbridge lets an LLM agent ask its human operator a question
through a pop-up dialog and receive the typed answer as a tool result.

It is a single binary with two roles. The host role runs a long-lived MCP
server exposing the get_user_feedback tool (and its ask_user alias); each
call spawns the dialog role as a short-lived subprocess, which renders the
prompt, collects the answer and hands it back through a single-use JSON file
in a scratch directory. The host reads the file once, deletes it, and maps
every outcome onto one of four statuses: success, error, timeout or
cancelled.

# Usage

	b, err := feedbridge.New(
		feedbridge.WithTimeout(5 * time.Minute),
	)
	if err != nil {
		log.Fatal(err)
	}

	resp := b.Collect(ctx, domain.Request{Prompt: "Deploy to production?"})
	switch resp.Status {
	case domain.StatusSuccess:
		fmt.Println("user said:", resp.Feedback)
	case domain.StatusCancelled:
		fmt.Println("user closed the dialog")
	}

The handshake contract with the dialog subprocess is two environment
variables: FEEDBRIDGE_PROMPT carries the text to display and
FEEDBRIDGE_OUTPUT_FILE the absolute path the subprocess must write its JSON
record to before exiting 0. Any process honoring that contract can replace
the built-in dialog via WithDialogCommand.
*/
package feedbridge
