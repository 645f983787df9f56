package config

// Config 配置主体
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Mongo      MongoConfig      `mapstructure:"mongo"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Logstash   LogstashConfig   `mapstructure:"logstash"`
	Slack      SlackConfig      `mapstructure:"slack"`
	LLM        LLMConfig        `mapstructure:"llm"`
	Sheets     SheetsConfig     `mapstructure:"sheets"`
	Schedule   ScheduleConfig   `mapstructure:"schedule"`
	Calendar   CalendarConfig   `mapstructure:"calendar"`
	Escalation EscalationConfig `mapstructure:"escalation"`
	Admin      AdminConfig      `mapstructure:"admin"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// MongoConfig Mongo配置
type MongoConfig struct {
	URL      string `mapstructure:"url"`
	Database string `mapstructure:"database"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// LogstashConfig 远程日志上报配置，Address 为空则只输出到 stdout
type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
}

// SlackConfig Slack 接入配置
type SlackConfig struct {
	BotToken          string `mapstructure:"bot_token"`
	SigningSecret     string `mapstructure:"signing_secret"`
	ReportsChannel    string `mapstructure:"reports_channel"`
	ManagementChannel string `mapstructure:"management_channel"`
}

type LLMConfig struct {
	URL         string           `mapstructure:"url"`
	TextModel   string           `mapstructure:"text_model"`
	ApiKey      string           `mapstructure:"api_key"`
	PromptsPath PromptPathConfig `mapstructure:"prompts_path"`
}

type PromptPathConfig struct {
	WeeklySummary string `mapstructure:"weekly_summary"`
}

// SheetsConfig Google Sheets 导出配置
type SheetsConfig struct {
	SheetID          string `mapstructure:"sheet_id"`
	CredentialsFile  string `mapstructure:"credentials_file"`
	SubmissionsSheet string `mapstructure:"submissions_sheet"`
	TrackerSheet     string `mapstructure:"tracker_sheet"`
}

// ScheduleConfig 定时任务配置，cron 表达式（带秒）统一在业务时区求值
type ScheduleConfig struct {
	PromptSpec        string `mapstructure:"prompt_spec"`
	ReminderSpec      string `mapstructure:"reminder_spec"`
	FinalWarningSpec  string `mapstructure:"final_warning_spec"`
	RollupSpec        string `mapstructure:"rollup_spec"`
	WeeklySummarySpec string `mapstructure:"weekly_summary_spec"`
	SheetsSyncSpec    string `mapstructure:"sheets_sync_spec"`
}

// CalendarConfig 业务时区与节假日表（按自然年人工维护）
type CalendarConfig struct {
	Timezone string          `mapstructure:"timezone"`
	Holidays []HolidayConfig `mapstructure:"holidays"`
}

type HolidayConfig struct {
	Date  string `mapstructure:"date"`
	Label string `mapstructure:"label"`
}

// EscalationConfig 催报策略配置
type EscalationConfig struct {
	LookbackCap   int      `mapstructure:"lookback_cap"`
	MaxReminders  int      `mapstructure:"max_reminders"`
	ExcludedUsers []string `mapstructure:"excluded_users"`
}

// AdminConfig 管理接口配置
type AdminConfig struct {
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
	JwtSecret string `mapstructure:"jwt_secret"`
	JwtTTL    int    `mapstructure:"jwt_ttl"`
}
