// Package conversation turns REPL input into bar commands and prints
// notifications back to the user.
package conversation

import (
	"regexp"
	"strings"

	"github.com/hammamikhairi/ottobar/internal/logger"
)

// CommandType identifies what the user asked the bar to do.
type CommandType int

const (
	CmdUnknown CommandType = iota
	CmdPour
	CmdIce
	CmdStir
	CmdShake
	CmdGarnish
	CmdUndo
	CmdReset
	CmdGlass
	CmdStats
	CmdPlay
	CmdStop
	CmdMake
	CmdAsk
	CmdFinish
	CmdJudge
	CmdList
	CmdMenu
	CmdGallery
	CmdOpen
	CmdDelete
	CmdHelp
	CmdQuit
)

var commandNames = map[CommandType]string{
	CmdUnknown: "unknown",
	CmdPour:    "pour",
	CmdIce:     "ice",
	CmdStir:    "stir",
	CmdShake:   "shake",
	CmdGarnish: "garnish",
	CmdUndo:    "undo",
	CmdReset:   "reset",
	CmdGlass:   "glass",
	CmdStats:   "stats",
	CmdPlay:    "play",
	CmdStop:    "stop",
	CmdMake:    "make",
	CmdAsk:     "ask",
	CmdFinish:  "finish",
	CmdJudge:   "judge",
	CmdList:    "list",
	CmdMenu:    "menu",
	CmdGallery: "gallery",
	CmdOpen:    "open",
	CmdDelete:  "delete",
	CmdHelp:    "help",
	CmdQuit:    "quit",
}

func (c CommandType) String() string {
	if s, ok := commandNames[c]; ok {
		return s
	}
	return "unknown"
}

// Command is one parsed line of input. Args holds the non-empty captures
// of the matching rule, in order.
type Command struct {
	Type CommandType
	Args []string
	Raw  string
}

// Arg returns the i-th argument or "".
func (c Command) Arg(i int) string {
	if i < 0 || i >= len(c.Args) {
		return ""
	}
	return c.Args[i]
}

// CommandParser matches input against an ordered list of patterns. The
// first match wins.
type CommandParser struct {
	log   *logger.Logger
	rules []commandRule
}

type commandRule struct {
	regex *regexp.Regexp
	cmd   CommandType
}

// NewCommandParser creates the REPL command parser. English and Chinese
// verbs are both accepted.
func NewCommandParser(log *logger.Logger) *CommandParser {
	p := &CommandParser{log: log}
	p.rules = []commandRule{
		{regexp.MustCompile(`(?i)^(?:pour|倒)\s+(\S+)(?:\s+(\d+(?:\.\d+)?)\s*(?:ml|毫升)?)?$`), CmdPour},
		{regexp.MustCompile(`(?i)^(?:ice|加冰)$`), CmdIce},
		{regexp.MustCompile(`(?i)^(?:stir|搅拌)$`), CmdStir},
		{regexp.MustCompile(`(?i)^(?:shake|摇)$`), CmdShake},
		{regexp.MustCompile(`(?i)^(?:garnish|装饰)\s+(\S+)$`), CmdGarnish},
		{regexp.MustCompile(`(?i)^(?:undo|u|撤销)$`), CmdUndo},
		{regexp.MustCompile(`(?i)^(?:reset|clear|清空)$`), CmdReset},
		{regexp.MustCompile(`(?i)^(?:glass|杯)\s+(\S+)$`), CmdGlass},
		{regexp.MustCompile(`(?i)^(?:stats|status|info)$`), CmdStats},
		{regexp.MustCompile(`(?i)^(?:play|播放)(?:\s+(.+))?$`), CmdPlay},
		{regexp.MustCompile(`(?i)^(?:stop|停)$`), CmdStop},
		{regexp.MustCompile(`(?i)^(?:make|mix|调)\s+(.+)$`), CmdMake},
		{regexp.MustCompile(`(?i)^(?:ask)\s+(.+)$`), CmdAsk},
		{regexp.MustCompile(`(?i)^(?:finish|serve|完成)$`), CmdFinish},
		{regexp.MustCompile(`(?i)^(?:judge|评判)\s+(.+)$`), CmdJudge},
		{regexp.MustCompile(`(?i)^(?:list|ls|shelf)(?:\s+(.+))?$`), CmdList},
		{regexp.MustCompile(`(?i)^(?:menu|recipes|酒单)$`), CmdMenu},
		{regexp.MustCompile(`(?i)^(?:gallery|saved|作品)$`), CmdGallery},
		{regexp.MustCompile(`(?i)^(?:open|查看)\s+(\S+)$`), CmdOpen},
		{regexp.MustCompile(`(?i)^(?:delete|rm|删除)\s+(\S+)$`), CmdDelete},
		{regexp.MustCompile(`(?i)^(?:help|h|\?)$`), CmdHelp},
		{regexp.MustCompile(`(?i)^(?:quit|exit|q)$`), CmdQuit},
	}
	return p
}

// Parse converts one line of input into a command.
func (p *CommandParser) Parse(input string) Command {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return Command{Type: CmdUnknown}
	}

	p.log.Debug("parsing input: %q", trimmed)

	for _, rule := range p.rules {
		m := rule.regex.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		var args []string
		for _, a := range m[1:] {
			if a != "" {
				args = append(args, strings.TrimSpace(a))
			}
		}
		p.log.Debug("matched command: %s %v", rule.cmd, args)
		return Command{Type: rule.cmd, Args: args, Raw: trimmed}
	}

	// Questions go to the bartender as they are.
	if isQuestion(trimmed) {
		return Command{Type: CmdAsk, Args: []string{trimmed}, Raw: trimmed}
	}

	p.log.Debug("no match, returning unknown command")
	return Command{Type: CmdUnknown, Raw: trimmed}
}

// questionPrefixes are common question starters.
var questionPrefixes = []string{
	"how", "what", "why", "when", "which", "who",
	"can", "could", "should", "would", "is", "does",
	"怎么", "为什么", "什么", "哪",
}

// isQuestion returns true if the input looks like a question.
func isQuestion(s string) bool {
	if strings.HasSuffix(s, "?") || strings.HasSuffix(s, "？") || strings.HasSuffix(s, "吗") {
		return true
	}
	lower := strings.ToLower(s)
	for _, prefix := range questionPrefixes {
		if strings.HasPrefix(lower, prefix+" ") || lower == prefix {
			return true
		}
		// Chinese has no spaces between words.
		if prefix[0] >= 0x80 && strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// Help lists the commands the parser understands.
const Help = `Commands:
  pour <ingredient> [ml]   pour from the shelf (default 30ml)
  ice | stir | shake       add ice, stir gently, shake hard
  garnish <ingredient>     decorate the drink
  undo | reset             take back the last step, or empty the glass
  glass <rocks|highball|martini|coupe>
  stats                    ABV, density and temperature
  list [filter]            show the shelf
  menu                     show the house recipes
  make <mood>              have the bartender invent a recipe
  play [name|file]         play the last recipe, a house recipe, or a file
  stop                     stop the running playback
  ask <question>           ask the bartender
  finish                   serve the drink and get a critique
  gallery                  list served drinks, newest first
  open <n|id>              show a served drink
  delete <n|id>            remove a served drink
  judge <mission file>     check the drink against a mission
  help | quit`
