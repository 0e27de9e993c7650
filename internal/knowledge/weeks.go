package knowledge

// WeekInfo is the developmental summary the obstetric agent serves for a
// gestational week range.
type WeekInfo struct {
	FromWeek int
	ToWeek   int
	Summary  string
	Guidance string
}

// WeekGuide returns the static per-week-range developmental table.
func WeekGuide() []WeekInfo {
	return weekTable
}

// InfoForWeek returns the entry covering the given gestational week.
func InfoForWeek(week int) (WeekInfo, bool) {
	for _, w := range weekTable {
		if week >= w.FromWeek && week <= w.ToWeek {
			return w, true
		}
	}
	return WeekInfo{}, false
}

var weekTable = []WeekInfo{
	{
		FromWeek: 1, ToWeek: 4,
		Summary:  "The fertilized egg implants in the uterine lining and the earliest structures begin to form.",
		Guidance: "Start a prenatal vitamin with folic acid if you have not already, and avoid alcohol and smoking.",
	},
	{
		FromWeek: 5, ToWeek: 8,
		Summary:  "The heart begins to beat and major organs start developing. Morning sickness often begins.",
		Guidance: "Schedule your first prenatal visit. Small frequent meals can help with nausea.",
	},
	{
		FromWeek: 9, ToWeek: 13,
		Summary:  "All major organs are formed and the baby is now called a fetus. Miscarriage risk drops after this period.",
		Guidance: "First-trimester screening is usually offered in this window.",
	},
	{
		FromWeek: 14, ToWeek: 17,
		Summary:  "The second trimester begins. Energy often improves and nausea usually eases.",
		Guidance: "A balanced diet and moderate activity, such as walking, are encouraged unless advised otherwise.",
	},
	{
		FromWeek: 18, ToWeek: 22,
		Summary:  "You may start feeling movement. The anatomy ultrasound is typically performed around week 20.",
		Guidance: "Attend the anatomy scan and report any fluid leakage or bleeding promptly.",
	},
	{
		FromWeek: 23, ToWeek: 27,
		Summary:  "The baby reaches viability. Lungs and brain are developing rapidly.",
		Guidance: "Glucose screening for gestational diabetes usually happens between weeks 24 and 28.",
	},
	{
		FromWeek: 28, ToWeek: 31,
		Summary:  "Third trimester begins. The baby gains weight quickly and movements become stronger.",
		Guidance: "Begin paying attention to daily movement patterns and report any decrease.",
	},
	{
		FromWeek: 32, ToWeek: 35,
		Summary:  "The baby usually settles head-down. Practice contractions (Braxton Hicks) may increase.",
		Guidance: "Learn the difference between practice contractions and true labor; regular painful contractions before 37 weeks need immediate review.",
	},
	{
		FromWeek: 36, ToWeek: 40,
		Summary:  "The baby is considered full term from week 39. Labor can begin any time.",
		Guidance: "Have your hospital plan ready. Go in for regular contractions, broken waters, or bleeding.",
	},
	{
		FromWeek: 41, ToWeek: 45,
		Summary:  "Pregnancy past the due date. Monitoring becomes more frequent.",
		Guidance: "Your provider will discuss options for closer surveillance or induction.",
	},
}
