package agents

import (
	"regexp"
	"strings"

	"github.com/sandevgo/matria/internal/core"
)

var questionTriggers = regexp.MustCompile(`(?i)(\?|^\s*(what|how|why|when|can|could|should|is|are|do|does)\b|tell me about|explain)`)

// educationTopic carries both phrasings; the reader's role picks one.
type educationTopic struct {
	name       string
	keywords   []string
	simplified string
	clinical   string
}

func (t educationTopic) phrasingFor(role core.Role) string {
	if role == core.RoleClinician || role == core.RoleAdmin {
		return t.clinical
	}
	return t.simplified
}

func readerRole(in Input) core.Role {
	if in.Context != nil {
		return in.Context.Role
	}
	return core.RolePatient
}

// educationTopics is ordered; the first keyword hit wins.
var educationTopics = []educationTopic{
	{
		name:       "nutrition",
		keywords:   []string{"eat", "food", "diet", "nutrition", "vitamin"},
		simplified: "Aim for regular balanced meals with plenty of vegetables, whole grains and protein, and keep taking your prenatal vitamin. Avoid raw fish, unpasteurized cheese and deli meats unless heated.",
		clinical:   "Counsel on a balanced diet with adequate protein and folate supplementation (400-800 mcg daily); advise avoidance of listeriosis-risk foods (unpasteurized dairy, raw fish, cold deli meats).",
	},
	{
		name:       "exercise",
		keywords:   []string{"exercise", "workout", "yoga", "walk", "active", "gym"},
		simplified: "Moderate activity like walking, swimming or prenatal yoga is usually safe and helpful. Stop and rest if you feel pain, dizziness or contractions.",
		clinical:   "Recommend 150 minutes/week of moderate-intensity activity absent contraindications (placenta previa, cervical insufficiency, preterm labor history warrant individualized guidance).",
	},
	{
		name:       "labor signs",
		keywords:   []string{"labor", "labour", "birth", "delivery", "contractions start"},
		simplified: "True labor usually means regular contractions that get stronger and closer together, often with back pressure. Broken waters or bleeding mean it's time to call your maternity unit.",
		clinical:   "Educate on distinguishing Braxton Hicks from true labor: regularity, progressive intensity, cervical-change symptoms; instruct immediate presentation for rupture of membranes or bleeding.",
	},
	{
		name:       "medication safety",
		keywords:   []string{"medication", "medicine", "ibuprofen", "acetaminophen", "paracetamol", "safe to take"},
		simplified: "Some everyday medicines aren't safe in pregnancy — for example ibuprofen is generally avoided, while acetaminophen is usually considered safer. Always check with your provider or pharmacist first.",
		clinical:   "NSAIDs are contraindicated in the third trimester (ductus arteriosus closure risk); acetaminophen remains first-line analgesia. Review all OTC and herbal products at each visit.",
	},
	{
		name:       "fetal development",
		keywords:   []string{"baby develop", "growing", "size of", "development", "milestones"},
		simplified: "Your baby grows in predictable stages — organs form early, then the second and third trimesters are mostly about growth and maturing lungs and brain.",
		clinical:   "Organogenesis completes by ~10 weeks; subsequent trimesters are dominated by somatic growth, pulmonary maturation and neurodevelopment.",
	},
	{
		name:       "warning signs",
		keywords:   []string{"warning signs", "when should i worry", "danger signs", "call the doctor"},
		simplified: "Call your provider right away for bleeding, severe headache, vision changes, fever, fluid leaking, severe pain, or the baby moving less than usual.",
		clinical:   "Review red-flag symptoms: vaginal bleeding, severe headache or visual disturbance (preeclampsia), fever >=38C, rupture of membranes, reduced fetal movement, severe abdominal pain.",
	},
	{
		name:       "nausea management",
		keywords:   []string{"morning sickness", "nausea help", "stop vomiting", "keep food down"},
		simplified: "Small frequent meals, ginger, and avoiding strong smells help many people. If you can't keep fluids down for a day, contact your provider.",
		clinical:   "First-line: dietary modification and pyridoxine +/- doxylamine. Assess for hyperemesis (ketonuria, weight loss >5%) when oral intake fails.",
	},
	{
		name:       "sleep",
		keywords:   []string{"sleep", "insomnia", "can't get comfortable", "which side"},
		simplified: "Side sleeping, ideally on your left with a pillow between your knees, is most comfortable for many and supports blood flow later in pregnancy.",
		clinical:   "Advise lateral positioning in the third trimester to reduce aortocaval compression; evaluate persistent insomnia before pharmacotherapy.",
	},
}

func NewEducationAgent() Agent {
	return Agent{
		Name:     EducationAgentName,
		Priority: 50,
		ShouldActivate: func(in Input) bool {
			return questionTriggers.MatchString(in.Message)
		},
		Process: processEducation,
	}
}

func processEducation(in Input) core.AgentOutput {
	out := core.AgentOutput{
		Agent:    EducationAgentName,
		Priority: 50,
	}

	lower := strings.ToLower(in.Message)
	for _, topic := range educationTopics {
		for _, kw := range topic.keywords {
			if strings.Contains(lower, kw) {
				out.Response = topic.phrasingFor(readerRole(in))
				out.Confidence = 0.75
				out.Metadata = map[string]any{
					"topic":    topic.name,
					"clinical": topic.clinical,
				}
				return out
			}
		}
	}

	out.Response = "That's a good question. I can explain topics like nutrition, exercise, medication safety, labor signs and your baby's development — what would you like to know more about?"
	out.Confidence = 0.4
	return out
}
