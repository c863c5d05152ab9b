package conversation

// lines.go centralises every line the bartender says. Edit this file to
// change Ottobar's personality.

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

func LineWelcome() string {
	return "晚上好。今晚想喝点什么？"
}

func LineBye() string {
	return "打烊了，晚安。"
}

func LineUnknown(input string) string {
	return fmt.Sprintf("没听懂：%s。输入 help 看看我会什么。", input)
}

func LineNoRecipe() string {
	return "还没有配方。先用 make 让我调一杯，或者 play <配方文件>。"
}

func LinePlaybackStopped() string {
	return "停下了。已经倒进去的留在杯里。"
}

func LineNothingPlaying() string {
	return "现在没有在播放配方。"
}

func LineAlreadyPlaying() string {
	return "配方还在播放，先 stop 再来。"
}

func LineUnknownGlass(name string) string {
	return fmt.Sprintf("没有 %s 这种杯子。可选：rocks、highball、martini、coupe。", name)
}

func LineUnknownIngredient(name string) string {
	return fmt.Sprintf("架子上没有 %s。用 list 看看有什么。", name)
}

func LineOverflow() string {
	return "杯子装不下了。"
}

func LineEmptyGlass() string {
	return "杯子是空的。"
}

// LineRecipeDone is said when playback reaches the last instruction.
func LineRecipeDone(name string) string {
	return fmt.Sprintf("《%s》完成。", name)
}

// LineStep narrates one playback event: "[2/5] 摇晃均匀 → 大力摇晃".
func LineStep(index, total int, instruction, did string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%d/%d] %s", index+1, total, instruction)
	if did != "" && did != instruction {
		fmt.Fprintf(&b, " → %s", did)
	}
	return b.String()
}

// LineVerdict reports a mission verdict.
func LineVerdict(success bool, reason string) string {
	if success {
		return "任务完成！" + reason
	}
	return "任务失败。" + reason
}

func LineGalleryEmpty() string {
	return "还没有端出过酒。调好一杯后输入 finish。"
}

func LineNoSavedDrink(ref string) string {
	return fmt.Sprintf("作品里没有 %s。输入 gallery 看看编号。", ref)
}

func LineSavedDrinkDeleted(name string) string {
	return fmt.Sprintf("%s 已从作品里删除。", name)
}

// LineMissionRecorded confirms that a mission was marked as done on disk.
func LineMissionRecorded() string {
	return "已记下：这单任务完成了。"
}

func LineAIDisabled() string {
	return "调酒师的灵感暂时不在线。设置 GPT_API_KEY 后再试。"
}

func LineAIError() string {
	return "灵感卡住了，再试一次。"
}

// Fillers shown while waiting for the model. Randomized to avoid repetition.

var thinkingMake = []string{
	"让我想想……",
	"嗯，这个情绪值得一杯好酒。",
	"稍等，我在翻酒架。",
	"正在构思配方。",
}

var thinkingCritique = []string{
	"让我尝一口……",
	"酒评家正在品鉴。",
	"嗯……有意思。",
}

var thinkingQuestion = []string{
	"好问题，稍等。",
	"让我想想。",
	"嗯，一秒钟。",
}

// LineThinkingMake returns a random filler for recipe generation.
func LineThinkingMake() string {
	return thinkingMake[rand.IntN(len(thinkingMake))]
}

// LineThinkingCritique returns a random filler for drink critique.
func LineThinkingCritique() string {
	return thinkingCritique[rand.IntN(len(thinkingCritique))]
}

// LineThinkingQuestion returns a random filler for questions.
func LineThinkingQuestion() string {
	return thinkingQuestion[rand.IntN(len(thinkingQuestion))]
}
