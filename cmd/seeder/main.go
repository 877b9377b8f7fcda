package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/placementprep/portal/internal/auth"
)

type categorySeed struct {
	name        string
	kind        string
	description string
}

type questionSeed struct {
	category      string
	questionText  string
	optionA       string
	optionB       string
	optionC       string
	optionD       string
	correctAnswer string
	explanation   string
	difficulty    string
}

type resourceSeed struct {
	title        string
	description  string
	resourceType string
	content      string
	link         string
}

func main() {
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load("configs/.env")
	}

	zlog.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	connString := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		getEnv("PG_HOST", "localhost"), getEnv("PG_PORT", "5432"),
		getEnv("PG_USER", ""), getEnv("PG_PASSWORD", ""),
		getEnv("PG_DATABASE", ""), getEnv("PG_SSL_MODE", "disable"))

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		zlog.Fatal().Err(err).Msg("failed to ping postgres")
	}

	adminID, err := seedAdmin(ctx, pool)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to seed admin user")
	}

	categoryIDs, err := seedCategories(ctx, pool)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to seed categories")
	}

	if err := seedQuestions(ctx, pool, categoryIDs); err != nil {
		zlog.Fatal().Err(err).Msg("failed to seed questions")
	}

	if err := seedResources(ctx, pool, adminID); err != nil {
		zlog.Fatal().Err(err).Msg("failed to seed resources")
	}

	zlog.Info().Msg("database seeding completed")
}

// seedAdmin creates the bootstrap admin account if missing and returns its id.
func seedAdmin(ctx context.Context, pool *pgxpool.Pool) (uuid.UUID, error) {
	email := getEnv("SEED_ADMIN_EMAIL", "admin@college.edu")
	password := getEnv("SEED_ADMIN_PASSWORD", "admin123")

	var id uuid.UUID
	err := pool.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, email).Scan(&id)
	if err == nil {
		zlog.Info().Str("email", email).Msg("admin user already exists")
		return id, nil
	}
	if err != pgx.ErrNoRows {
		return uuid.Nil, fmt.Errorf("lookup admin: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return uuid.Nil, fmt.Errorf("hash admin password: %w", err)
	}

	id = uuid.New()
	_, err = pool.Exec(ctx,
		`INSERT INTO users (id, name, email, password_hash, role, college)
		 VALUES ($1, $2, $3, $4, 'admin', 'Placement Portal')`,
		id, "Admin User", email, hash)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert admin: %w", err)
	}

	zlog.Info().Str("email", email).Msg("admin user created")
	return id, nil
}

func seedCategories(ctx context.Context, pool *pgxpool.Pool) (map[string]uuid.UUID, error) {
	seeds := []categorySeed{
		{"Quantitative Aptitude", "aptitude", "Test your numerical ability and mathematical skills. Covers topics like arithmetic, algebra, geometry, and data interpretation."},
		{"Logical Reasoning", "aptitude", "Evaluate your logical thinking and analytical abilities. Includes puzzles, seating arrangements, and pattern recognition."},
		{"Verbal Ability", "aptitude", "Assess your English language skills including reading comprehension, grammar, vocabulary, and verbal reasoning."},
		{"Go Programming", "technical", "Test your Go programming knowledge including syntax, data structures, concurrency, and the standard library."},
		{"Data Structures", "technical", "Evaluate your understanding of fundamental data structures like arrays, linked lists, trees, graphs, and hash tables."},
		{"SQL & Databases", "technical", "Test your database knowledge including SQL queries, normalization, indexing, and database design concepts."},
		{"Operating Systems", "technical", "Assess your understanding of OS concepts like processes, threads, memory management, and file systems."},
		{"Computer Networks", "technical", "Test your networking knowledge including OSI model, TCP/IP, protocols, and network security basics."},
	}

	ids := make(map[string]uuid.UUID, len(seeds))
	created := 0
	for _, c := range seeds {
		var id uuid.UUID
		err := pool.QueryRow(ctx, `SELECT id FROM categories WHERE name = $1`, c.name).Scan(&id)
		if err == nil {
			ids[c.name] = id
			continue
		}
		if err != pgx.ErrNoRows {
			return nil, fmt.Errorf("lookup category %q: %w", c.name, err)
		}

		id = uuid.New()
		if _, err := pool.Exec(ctx,
			`INSERT INTO categories (id, name, kind, description) VALUES ($1, $2, $3, $4)`,
			id, c.name, c.kind, c.description); err != nil {
			return nil, fmt.Errorf("insert category %q: %w", c.name, err)
		}
		ids[c.name] = id
		created++
	}

	zlog.Info().Int("created", created).Int("total", len(seeds)).Msg("categories seeded")
	return ids, nil
}

func seedQuestions(ctx context.Context, pool *pgxpool.Pool, categoryIDs map[string]uuid.UUID) error {
	seeds := []questionSeed{
		{"Quantitative Aptitude",
			"If a number is increased by 20% and then decreased by 20%, what is the net percentage change?",
			"0%", "4% decrease", "4% increase", "2% decrease", "B",
			"Let the number be 100. After 20% increase: 120. After 20% decrease: 120 - 24 = 96. Net change = -4% (4% decrease)", "easy"},
		{"Quantitative Aptitude",
			"A train 200m long is running at 72 km/h. In how much time will it cross a pole?",
			"8 seconds", "10 seconds", "12 seconds", "15 seconds", "B",
			"Speed = 72 km/h = 20 m/s. Time = Distance/Speed = 200/20 = 10 seconds", "easy"},
		{"Quantitative Aptitude",
			"What is the sum of first 50 natural numbers?",
			"1225", "1275", "1325", "1375", "B",
			"Sum = n(n+1)/2 = 50 * 51 / 2 = 1275", "easy"},
		{"Logical Reasoning",
			"Find the next number in the series: 2, 6, 12, 20, 30, ?",
			"38", "40", "42", "44", "C",
			"Pattern: 1*2=2, 2*3=6, 3*4=12, 4*5=20, 5*6=30, 6*7=42", "easy"},
		{"Logical Reasoning",
			"All roses are flowers. Some flowers are red. Therefore:",
			"All roses are red", "Some roses are red", "No rose is red", "None of the above necessarily follows", "D",
			"From the given statements, we cannot determine if any roses are red. The roses could all be of other colors.", "medium"},
		{"Logical Reasoning",
			"If A is the brother of B, B is the sister of C, and C is the father of D, how is A related to D?",
			"Uncle", "Nephew", "Cousin", "Grandfather", "A",
			"A is brother of B, B is sister of C, so A and B are siblings of C. C is father of D, so A is uncle of D.", "medium"},
		{"Verbal Ability",
			"Choose the synonym of \"EPHEMERAL\":",
			"Eternal", "Transient", "Permanent", "Everlasting", "B",
			"Ephemeral means lasting for a very short time, so transient is the synonym.", "medium"},
		{"Verbal Ability",
			"Choose the antonym of \"BENEVOLENT\":",
			"Kind", "Generous", "Malevolent", "Caring", "C",
			"Benevolent means well-meaning and kindly. Malevolent means having evil intentions.", "easy"},
		{"Verbal Ability",
			"The word \"UBIQUITOUS\" means:",
			"Rare", "Present everywhere", "Unique", "Ancient", "B",
			"Ubiquitous means present, appearing, or found everywhere.", "medium"},
		{"Go Programming",
			"Which keyword starts a new goroutine?",
			"thread", "go", "spawn", "async", "B",
			"The go keyword starts a new goroutine running the given function call concurrently.", "easy"},
		{"Go Programming",
			"What is the zero value of a slice in Go?",
			"An empty slice", "nil", "A slice of length 1", "Undefined", "B",
			"The zero value of a slice is nil. A nil slice has length and capacity 0.", "easy"},
		{"Go Programming",
			"What happens when you send on an unbuffered channel with no receiver?",
			"The value is dropped", "The send blocks", "A panic occurs", "The value is queued", "B",
			"A send on an unbuffered channel blocks until another goroutine is ready to receive.", "medium"},
		{"Data Structures",
			"What is the time complexity of searching an element in a balanced BST?",
			"O(1)", "O(n)", "O(log n)", "O(n log n)", "C",
			"In a balanced BST, each comparison eliminates half of the remaining nodes, giving O(log n) complexity.", "easy"},
		{"Data Structures",
			"Which data structure uses LIFO principle?",
			"Queue", "Stack", "Linked List", "Tree", "B",
			"Stack follows Last In First Out (LIFO) principle where the last element added is removed first.", "easy"},
		{"Data Structures",
			"What is the worst-case time complexity of QuickSort?",
			"O(n)", "O(n log n)", "O(n^2)", "O(log n)", "C",
			"QuickSort has O(n^2) worst-case when the pivot is always the smallest or largest element.", "medium"},
		{"SQL & Databases",
			"Which SQL command is used to remove all records from a table without removing the table itself?",
			"DELETE", "DROP", "TRUNCATE", "REMOVE", "C",
			"TRUNCATE removes all rows from a table without logging individual row deletions. It's faster than DELETE.", "easy"},
		{"SQL & Databases",
			"What is an ACID property in databases?",
			"A type of query", "A database indexing method", "Properties ensuring reliable transactions", "A backup strategy", "C",
			"ACID (Atomicity, Consistency, Isolation, Durability) are properties that guarantee reliable transaction processing.", "easy"},
		{"SQL & Databases",
			"Which index type is best for range queries?",
			"Hash Index", "B-Tree Index", "Bitmap Index", "Full-text Index", "B",
			"B-Tree indexes maintain sorted order and support efficient range queries, unlike hash indexes.", "hard"},
		{"Operating Systems",
			"What is a deadlock in operating systems?",
			"A process waiting for I/O", "Two or more processes waiting indefinitely for resources held by each other", "System crash", "Memory overflow", "B",
			"Deadlock occurs when two or more processes are waiting indefinitely for resources held by each other.", "easy"},
		{"Operating Systems",
			"Which scheduling algorithm is preemptive?",
			"First Come First Serve", "Shortest Job First", "Round Robin", "Non-preemptive Priority", "C",
			"Round Robin is preemptive as it allocates a fixed time quantum to each process.", "medium"},
		{"Operating Systems",
			"What is the purpose of virtual memory?",
			"To increase RAM speed", "To allow execution of processes larger than physical memory", "To speed up disk access", "To create backup copies", "B",
			"Virtual memory allows programs to use more memory than physically available by using disk space.", "easy"},
		{"Computer Networks",
			"Which layer of the OSI model is responsible for routing?",
			"Data Link Layer", "Network Layer", "Transport Layer", "Session Layer", "B",
			"The Network Layer (Layer 3) is responsible for logical addressing and routing.", "easy"},
		{"Computer Networks",
			"What protocol is used for secure web browsing?",
			"HTTP", "FTP", "HTTPS", "SMTP", "C",
			"HTTPS (HTTP Secure) uses TLS/SSL to encrypt web traffic for secure communication.", "easy"},
		{"Computer Networks",
			"What is the purpose of DNS?",
			"File transfer", "Email delivery", "Domain name to IP address translation", "Network security", "C",
			"DNS (Domain Name System) translates human-readable domain names to IP addresses.", "easy"},
	}

	created := 0
	for _, q := range seeds {
		categoryID, ok := categoryIDs[q.category]
		if !ok {
			return fmt.Errorf("unknown category %q for question seed", q.category)
		}

		var exists bool
		err := pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM questions WHERE category_id = $1 AND question_text = $2)`,
			categoryID, q.questionText).Scan(&exists)
		if err != nil {
			return fmt.Errorf("lookup question: %w", err)
		}
		if exists {
			continue
		}

		if _, err := pool.Exec(ctx,
			`INSERT INTO questions (id, category_id, question_text, option_a, option_b, option_c,
			                        option_d, correct_answer, explanation, difficulty)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			uuid.New(), categoryID, q.questionText, q.optionA, q.optionB, q.optionC,
			q.optionD, q.correctAnswer, q.explanation, q.difficulty); err != nil {
			return fmt.Errorf("insert question: %w", err)
		}
		created++
	}

	zlog.Info().Int("created", created).Msg("questions seeded")
	return nil
}

func seedResources(ctx context.Context, pool *pgxpool.Pool, adminID uuid.UUID) error {
	seeds := []resourceSeed{
		{
			title:        "Interview Preparation Tips",
			description:  "Comprehensive guide for campus placement interviews including common questions and best practices.",
			resourceType: "interview_tip",
			content:      "Research the company, practice common questions, use the STAR method for structured answers, and follow up with a thank-you email.",
		},
		{
			title:        "Common HR Questions and Answers",
			description:  "List of frequently asked HR interview questions with suggested answer approaches.",
			resourceType: "hr_question",
			content:      "Covers: tell me about yourself, why this company, strengths and weaknesses, five-year plan, and why should we hire you.",
		},
		{
			title:        "Data Structures and Algorithms Practice",
			description:  "Useful resources for practicing DSA problems for technical interviews.",
			resourceType: "coding_link",
			link:         "https://leetcode.com",
		},
		{
			title:        "Resume Writing Guide",
			description:  "Best practices for creating an effective resume for campus placements.",
			resourceType: "notes",
			content:      "Keep it to one or two pages, use action verbs, quantify achievements, and tailor the resume for each application.",
		},
		{
			title:        "Group Discussion Tips",
			description:  "How to perform well in group discussions during campus placements.",
			resourceType: "notes",
			content:      "Listen actively, support your points with examples, let others speak, and summarize key points. Never interrupt or go off-topic.",
		},
	}

	created := 0
	for _, res := range seeds {
		var exists bool
		err := pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM resources WHERE title = $1)`, res.title).Scan(&exists)
		if err != nil {
			return fmt.Errorf("lookup resource: %w", err)
		}
		if exists {
			continue
		}

		if _, err := pool.Exec(ctx,
			`INSERT INTO resources (id, title, description, resource_type, content, link, created_by)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			uuid.New(), res.title, res.description, res.resourceType, res.content, res.link, adminID); err != nil {
			return fmt.Errorf("insert resource: %w", err)
		}
		created++
	}

	zlog.Info().Int("created", created).Msg("resources seeded")
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
