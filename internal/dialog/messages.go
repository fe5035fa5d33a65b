package dialog

// Command is a user-visible chat command.
type Command struct {
	Name        string
	Description string
}

const (
	CmdStart     = "start"
	CmdHelp      = "help"
	CmdAddStudy  = "add_study"
	CmdListStudy = "list_study"
	CmdAddSleep  = "add_sleep"
	CmdListSleep = "list_sleep"
	CmdCancel    = "cancel"
)

// Commands is the command surface, in menu order.
var Commands = []Command{
	{CmdStart, "Start the bot"},
	{CmdHelp, "Show help"},
	{CmdAddStudy, "Record a study session"},
	{CmdListStudy, "List recorded study sessions"},
	{CmdAddSleep, "Record a sleep period"},
	{CmdListSleep, "List recorded sleep periods"},
	{CmdCancel, "Cancel the current operation"},
}

const (
	msgWelcome        = "Welcome, %s! Use the commands in the menu to talk to me.\nSend /add_study to get started."
	msgUnknownCommand = "Unknown command. Use /help to see the available commands."
	msgNoCommand      = "Use /help to see the available commands."

	msgCancelled    = "Operation cancelled."
	msgNoOperation  = "There is no operation in progress."
	msgFailure      = "Something went wrong, the operation was abandoned."
	msgChooseOption = "Please choose one of the options above."
	msgStale        = "This operation is no longer active."
	msgInvalidTime  = "Invalid time format. Please use HH:MM:"

	msgPickDiscipline     = "Pick one of your recent disciplines or choose 'Type a new one':"
	msgAskDiscipline      = "Which discipline did you study?"
	msgTypeDiscipline     = "Type the name of the discipline:"
	msgDisciplineSelected = "Discipline selected: %s\nNow type the start time (HH:MM):"
	msgDisciplineTyped    = "Discipline: %s\nPlease type the start time (HH:MM):"
	msgStudyStartSet      = "Start time: %s\nNow type the end time (HH:MM):"
	msgStudyPickDate      = "Select the date of this session:"
	msgPickPerformance    = "How was your performance during the session?"
	msgStudyRecorded      = "Study session recorded:\n" +
		"User: %s\n" +
		"Discipline: %s\n" +
		"Date: %s\n" +
		"Start: %s\n" +
		"End: %s\n" +
		"Duration: %d hours and %d minutes\n" +
		"Performance: %d%%"

	msgSleepAskStart = "Let's record your sleep. Please type the time you went to sleep (HH:MM):"
	msgSleepStartSet = "Sleep start: %s\nNow type the time you woke up (HH:MM):"
	msgSleepPickDate = "Select the date of this sleep period:"
	msgSleepSummary  = "Sleep period:\n" +
		"Date: %s\n" +
		"Start: %s\n" +
		"End: %s\n" +
		"Duration: %d hours and %d minutes\n\n" +
		"How was the quality of your sleep?"
	msgSleepRecorded = "Sleep recorded:\n" +
		"User: %s\n" +
		"Date: %s\n" +
		"Start: %s\n" +
		"End: %s\n" +
		"Duration: %d hours and %d minutes\n" +
		"Quality: %s"

	msgNoStudy        = "You have no study sessions recorded yet."
	msgNoSleep        = "You have no sleep periods recorded yet."
	msgStudyListTitle = "Your recorded study sessions:\n\n"
	msgSleepListTitle = "Your recorded sleep periods:\n\n"
)

func helpText() string {
	s := "Available commands:\n"
	for _, c := range Commands {
		s += "/" + c.Name + " - " + c.Description + "\n"
	}
	return s
}
