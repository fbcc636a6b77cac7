package db

// Timestamps are unix seconds in every dialect.

var schemaSQLite = []string{
	`CREATE TABLE IF NOT EXISTS users (
  user_id INTEGER PRIMARY KEY AUTOINCREMENT,
  full_name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  phone TEXT,
  faculty TEXT,
  user_group TEXT,
  avatar_url TEXT,
  role TEXT NOT NULL DEFAULT 'student',
  registration_date INTEGER NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS posts (
  post_id INTEGER PRIMARY KEY AUTOINCREMENT,
  title TEXT NOT NULL,
  short_description TEXT,
  content TEXT NOT NULL,
  image_url TEXT,
  author_id INTEGER NOT NULL REFERENCES users(user_id),
  status TEXT NOT NULL DEFAULT 'draft',
  created_at INTEGER NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS tags (
  tag_id INTEGER PRIMARY KEY AUTOINCREMENT,
  tag_name TEXT NOT NULL UNIQUE,
  tag_description TEXT
)`,
	`CREATE TABLE IF NOT EXISTS post_tags (
  post_id INTEGER NOT NULL REFERENCES posts(post_id) ON DELETE CASCADE,
  tag_id INTEGER NOT NULL REFERENCES tags(tag_id) ON DELETE CASCADE,
  PRIMARY KEY (post_id, tag_id)
)`,
	`CREATE TABLE IF NOT EXISTS tests (
  test_id INTEGER PRIMARY KEY AUTOINCREMENT,
  test_name TEXT NOT NULL,
  test_description TEXT,
  creator_id INTEGER NOT NULL REFERENCES users(user_id),
  is_published INTEGER NOT NULL DEFAULT 0,
  created_at INTEGER NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS questions (
  question_id INTEGER PRIMARY KEY AUTOINCREMENT,
  test_id INTEGER NOT NULL REFERENCES tests(test_id) ON DELETE CASCADE,
  question_text TEXT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS answer_options (
  option_id INTEGER PRIMARY KEY AUTOINCREMENT,
  question_id INTEGER NOT NULL REFERENCES questions(question_id) ON DELETE CASCADE,
  option_text TEXT NOT NULL,
  is_correct INTEGER NOT NULL DEFAULT 0
)`,
	`CREATE TABLE IF NOT EXISTS test_attempts (
  attempt_id INTEGER PRIMARY KEY AUTOINCREMENT,
  student_id INTEGER NOT NULL REFERENCES users(user_id),
  test_id INTEGER NOT NULL REFERENCES tests(test_id),
  started_at INTEGER NOT NULL,
  completed_at INTEGER,
  final_score REAL
)`,
	`CREATE TABLE IF NOT EXISTS user_answers (
  answer_id INTEGER PRIMARY KEY AUTOINCREMENT,
  attempt_id INTEGER NOT NULL REFERENCES test_attempts(attempt_id) ON DELETE CASCADE,
  question_id INTEGER NOT NULL REFERENCES questions(question_id),
  selected_option_id INTEGER NOT NULL REFERENCES answer_options(option_id),
  UNIQUE (attempt_id, question_id)
)`,
	`CREATE TABLE IF NOT EXISTS event_log (
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  site_id TEXT NOT NULL DEFAULT 'local',
  event_type TEXT NOT NULL,
  event_key TEXT NOT NULL,
  payload TEXT NOT NULL,
  created_at INTEGER NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_questions_test ON questions(test_id)`,
	`CREATE INDEX IF NOT EXISTS idx_options_question ON answer_options(question_id)`,
	`CREATE INDEX IF NOT EXISTS idx_attempts_student ON test_attempts(student_id)`,
}

var schemaPostgres = []string{
	`CREATE TABLE IF NOT EXISTS users (
  user_id BIGSERIAL PRIMARY KEY,
  full_name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  phone TEXT,
  faculty TEXT,
  user_group TEXT,
  avatar_url TEXT,
  role TEXT NOT NULL DEFAULT 'student',
  registration_date BIGINT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS posts (
  post_id BIGSERIAL PRIMARY KEY,
  title TEXT NOT NULL,
  short_description TEXT,
  content TEXT NOT NULL,
  image_url TEXT,
  author_id BIGINT NOT NULL REFERENCES users(user_id),
  status TEXT NOT NULL DEFAULT 'draft',
  created_at BIGINT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS tags (
  tag_id BIGSERIAL PRIMARY KEY,
  tag_name TEXT NOT NULL UNIQUE,
  tag_description TEXT
)`,
	`CREATE TABLE IF NOT EXISTS post_tags (
  post_id BIGINT NOT NULL REFERENCES posts(post_id) ON DELETE CASCADE,
  tag_id BIGINT NOT NULL REFERENCES tags(tag_id) ON DELETE CASCADE,
  PRIMARY KEY (post_id, tag_id)
)`,
	`CREATE TABLE IF NOT EXISTS tests (
  test_id BIGSERIAL PRIMARY KEY,
  test_name TEXT NOT NULL,
  test_description TEXT,
  creator_id BIGINT NOT NULL REFERENCES users(user_id),
  is_published BOOLEAN NOT NULL DEFAULT FALSE,
  created_at BIGINT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS questions (
  question_id BIGSERIAL PRIMARY KEY,
  test_id BIGINT NOT NULL REFERENCES tests(test_id) ON DELETE CASCADE,
  question_text TEXT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS answer_options (
  option_id BIGSERIAL PRIMARY KEY,
  question_id BIGINT NOT NULL REFERENCES questions(question_id) ON DELETE CASCADE,
  option_text TEXT NOT NULL,
  is_correct BOOLEAN NOT NULL DEFAULT FALSE
)`,
	`CREATE TABLE IF NOT EXISTS test_attempts (
  attempt_id BIGSERIAL PRIMARY KEY,
  student_id BIGINT NOT NULL REFERENCES users(user_id),
  test_id BIGINT NOT NULL REFERENCES tests(test_id),
  started_at BIGINT NOT NULL,
  completed_at BIGINT,
  final_score DOUBLE PRECISION
)`,
	`CREATE TABLE IF NOT EXISTS user_answers (
  answer_id BIGSERIAL PRIMARY KEY,
  attempt_id BIGINT NOT NULL REFERENCES test_attempts(attempt_id) ON DELETE CASCADE,
  question_id BIGINT NOT NULL REFERENCES questions(question_id),
  selected_option_id BIGINT NOT NULL REFERENCES answer_options(option_id),
  UNIQUE (attempt_id, question_id)
)`,
	`CREATE TABLE IF NOT EXISTS event_log (
  seq BIGSERIAL PRIMARY KEY,
  site_id TEXT NOT NULL DEFAULT 'local',
  event_type TEXT NOT NULL,
  event_key TEXT NOT NULL,
  payload TEXT NOT NULL,
  created_at BIGINT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_questions_test ON questions(test_id)`,
	`CREATE INDEX IF NOT EXISTS idx_options_question ON answer_options(question_id)`,
	`CREATE INDEX IF NOT EXISTS idx_attempts_student ON test_attempts(student_id)`,
}

// MySQL has no CREATE INDEX IF NOT EXISTS, so secondary keys live inline.
var schemaMySQL = []string{
	`CREATE TABLE IF NOT EXISTS users (
  user_id BIGINT AUTO_INCREMENT PRIMARY KEY,
  full_name VARCHAR(255) NOT NULL,
  email VARCHAR(255) NOT NULL UNIQUE,
  password_hash VARCHAR(255) NOT NULL,
  phone VARCHAR(64),
  faculty VARCHAR(255),
  user_group VARCHAR(64),
  avatar_url TEXT,
  role VARCHAR(16) NOT NULL DEFAULT 'student',
  registration_date BIGINT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS posts (
  post_id BIGINT AUTO_INCREMENT PRIMARY KEY,
  title VARCHAR(255) NOT NULL,
  short_description TEXT,
  content MEDIUMTEXT NOT NULL,
  image_url TEXT,
  author_id BIGINT NOT NULL,
  status VARCHAR(16) NOT NULL DEFAULT 'draft',
  created_at BIGINT NOT NULL,
  KEY idx_posts_status (status, created_at),
  FOREIGN KEY (author_id) REFERENCES users(user_id)
)`,
	`CREATE TABLE IF NOT EXISTS tags (
  tag_id BIGINT AUTO_INCREMENT PRIMARY KEY,
  tag_name VARCHAR(128) NOT NULL UNIQUE,
  tag_description TEXT
)`,
	`CREATE TABLE IF NOT EXISTS post_tags (
  post_id BIGINT NOT NULL,
  tag_id BIGINT NOT NULL,
  PRIMARY KEY (post_id, tag_id),
  FOREIGN KEY (post_id) REFERENCES posts(post_id) ON DELETE CASCADE,
  FOREIGN KEY (tag_id) REFERENCES tags(tag_id) ON DELETE CASCADE
)`,
	`CREATE TABLE IF NOT EXISTS tests (
  test_id BIGINT AUTO_INCREMENT PRIMARY KEY,
  test_name VARCHAR(255) NOT NULL,
  test_description TEXT,
  creator_id BIGINT NOT NULL,
  is_published BOOLEAN NOT NULL DEFAULT FALSE,
  created_at BIGINT NOT NULL,
  FOREIGN KEY (creator_id) REFERENCES users(user_id)
)`,
	`CREATE TABLE IF NOT EXISTS questions (
  question_id BIGINT AUTO_INCREMENT PRIMARY KEY,
  test_id BIGINT NOT NULL,
  question_text TEXT NOT NULL,
  KEY idx_questions_test (test_id),
  FOREIGN KEY (test_id) REFERENCES tests(test_id) ON DELETE CASCADE
)`,
	`CREATE TABLE IF NOT EXISTS answer_options (
  option_id BIGINT AUTO_INCREMENT PRIMARY KEY,
  question_id BIGINT NOT NULL,
  option_text TEXT NOT NULL,
  is_correct BOOLEAN NOT NULL DEFAULT FALSE,
  KEY idx_options_question (question_id),
  FOREIGN KEY (question_id) REFERENCES questions(question_id) ON DELETE CASCADE
)`,
	`CREATE TABLE IF NOT EXISTS test_attempts (
  attempt_id BIGINT AUTO_INCREMENT PRIMARY KEY,
  student_id BIGINT NOT NULL,
  test_id BIGINT NOT NULL,
  started_at BIGINT NOT NULL,
  completed_at BIGINT NULL,
  final_score DOUBLE NULL,
  KEY idx_attempts_student (student_id),
  FOREIGN KEY (student_id) REFERENCES users(user_id),
  FOREIGN KEY (test_id) REFERENCES tests(test_id)
)`,
	`CREATE TABLE IF NOT EXISTS user_answers (
  answer_id BIGINT AUTO_INCREMENT PRIMARY KEY,
  attempt_id BIGINT NOT NULL,
  question_id BIGINT NOT NULL,
  selected_option_id BIGINT NOT NULL,
  UNIQUE KEY uq_answer_per_question (attempt_id, question_id),
  FOREIGN KEY (attempt_id) REFERENCES test_attempts(attempt_id) ON DELETE CASCADE,
  FOREIGN KEY (question_id) REFERENCES questions(question_id),
  FOREIGN KEY (selected_option_id) REFERENCES answer_options(option_id)
)`,
	`CREATE TABLE IF NOT EXISTS event_log (
  seq BIGINT AUTO_INCREMENT PRIMARY KEY,
  site_id VARCHAR(64) NOT NULL DEFAULT 'local',
  event_type VARCHAR(64) NOT NULL,
  event_key VARCHAR(128) NOT NULL,
  payload TEXT NOT NULL,
  created_at BIGINT NOT NULL
)`,
}
