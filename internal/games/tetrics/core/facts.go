package core

// Fact is the trivia record attached to a themed piece type.
type Fact struct {
	Service    string
	Icon       string
	Text       string
	Category   string
	LaunchYear int
}

var cloudFacts = [PieceCount]Fact{
	PieceI: {
		Service:    "AWS Lambda",
		Icon:       "⚡",
		Text:       "AWS Lambda can automatically scale from zero to thousands of concurrent executions in seconds. It supports over 15 programming languages and can process up to 1,000 concurrent executions per region by default!",
		Category:   "Serverless Compute",
		LaunchYear: 2014,
	},
	PieceO: {
		Service:    "Amazon S3",
		Icon:       "🪣",
		Text:       "Amazon S3 stores over 100 trillion objects and regularly peaks at 20+ million requests per second! It's designed for 99.999999999% (11 9's) durability, meaning if you store 10 million objects, you can expect to lose one every 10,000 years.",
		Category:   "Object Storage",
		LaunchYear: 2006,
	},
	PieceT: {
		Service:    "Amazon API Gateway",
		Icon:       "🚪",
		Text:       "API Gateway can handle millions of concurrent API calls and automatically scales to meet demand. It supports WebSocket APIs for real-time communication and can cache responses to reduce latency by up to 90%!",
		Category:   "API Management",
		LaunchYear: 2015,
	},
	PieceS: {
		Service:    "Amazon DynamoDB",
		Icon:       "🗄️",
		Text:       "DynamoDB can handle more than 10 trillion requests per day and support peaks of more than 20 million requests per second! It provides single-digit millisecond latency at any scale and automatically spreads data across multiple servers.",
		Category:   "NoSQL Database",
		LaunchYear: 2012,
	},
	PieceZ: {
		Service:    "AWS CloudFormation",
		Icon:       "📋",
		Text:       "CloudFormation can manage infrastructure across 200+ AWS services and has processed over 1 billion stack operations! It supports rollback on failure and can create identical environments in minutes using Infrastructure as Code.",
		Category:   "Infrastructure as Code",
		LaunchYear: 2011,
	},
	PieceJ: {
		Service:    "Amazon EC2",
		Icon:       "💻",
		Text:       "Amazon EC2 was one of the first AWS services and revolutionized cloud computing! It offers over 500 instance types, can scale from 1 to thousands of instances in minutes, and powers some of the world's largest applications including Netflix and Airbnb.",
		Category:   "Virtual Servers",
		LaunchYear: 2006,
	},
	PieceL: {
		Service:    "Amazon CloudWatch",
		Icon:       "📊",
		Text:       "CloudWatch collects over 1 billion metrics per day and can store metrics for up to 15 months! It can monitor everything from CPU usage to custom business metrics and automatically trigger actions based on thresholds.",
		Category:   "Monitoring & Observability",
		LaunchYear: 2009,
	},
}
