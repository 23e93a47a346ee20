package db

// 테이블 최종 형태. 과거 버전 DB 는 마이그레이션 단계들이 이 모양으로 끌어올린다.
// CREATE 에 IF NOT EXISTS 를 쓰지 않는 건 의도다: 재실행 시 1050 이 나와야
// 시퀀서가 skipped 로 분류해 보고서에 남길 수 있다.
// FK 정책:
//   - student_lectures / instructor_lectures / attendance_records → ON DELETE CASCADE
//   - lectures.instructor_id → ON DELETE SET NULL (별도 단계에서 추가)

const createUsers = `
CREATE TABLE users (
    id BIGINT AUTO_INCREMENT PRIMARY KEY,
    username VARCHAR(50) NOT NULL UNIQUE,
    password VARCHAR(255) NOT NULL,
    name VARCHAR(100) NOT NULL DEFAULT '',
    email VARCHAR(255) NOT NULL DEFAULT '',
    role ENUM('admin','superadmin') NOT NULL DEFAULT 'admin',
    is_active TINYINT(1) NOT NULL DEFAULT 1,
    last_login_at DATETIME NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`

const createStudents = `
CREATE TABLE students (
    id BIGINT AUTO_INCREMENT PRIMARY KEY,
    name VARCHAR(100) NOT NULL,
    school VARCHAR(100) NOT NULL DEFAULT '',
    grade VARCHAR(20) NOT NULL DEFAULT '',
    department VARCHAR(50) NOT NULL DEFAULT '',
    phone VARCHAR(20) NOT NULL DEFAULT '',
    parent_phone VARCHAR(20) NOT NULL,
    email VARCHAR(255) NOT NULL DEFAULT '',
    birth_date DATE NULL,
    address VARCHAR(255) NOT NULL DEFAULT '',
    memo TEXT NULL,
    monthly_fee INT NOT NULL DEFAULT 0,
    payment_due_day TINYINT NOT NULL DEFAULT 1,
    auto_attendance_msg TINYINT(1) NOT NULL DEFAULT 1,
    auto_outing_msg TINYINT(1) NOT NULL DEFAULT 1,
    auto_image_msg TINYINT(1) NOT NULL DEFAULT 0,
    auto_study_msg TINYINT(1) NOT NULL DEFAULT 0,
    profile_image VARCHAR(255) NOT NULL DEFAULT '',
    is_active TINYINT(1) NOT NULL DEFAULT 1,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
    INDEX idx_students_active (is_active),
    INDEX idx_students_name (name)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`

const createInstructors = `
CREATE TABLE instructors (
    id BIGINT AUTO_INCREMENT PRIMARY KEY,
    name VARCHAR(100) NOT NULL,
    department VARCHAR(50) NOT NULL DEFAULT '',
    subject VARCHAR(50) NOT NULL DEFAULT '',
    phone VARCHAR(20) NOT NULL DEFAULT '',
    email VARCHAR(255) NOT NULL DEFAULT '',
    hire_date DATE NULL,
    address VARCHAR(255) NOT NULL DEFAULT '',
    memo TEXT NULL,
    salary INT NOT NULL DEFAULT 0,
    employment_type VARCHAR(20) NOT NULL DEFAULT '정규',
    status VARCHAR(20) NOT NULL DEFAULT 'active',
    is_active TINYINT(1) NOT NULL DEFAULT 1,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
    INDEX idx_instructors_active (is_active)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`

const createLectures = `
CREATE TABLE lectures (
    id BIGINT AUTO_INCREMENT PRIMARY KEY,
    name VARCHAR(100) NOT NULL,
    subject VARCHAR(50) NOT NULL DEFAULT '',
    description TEXT NULL,
    instructor_id BIGINT NULL,
    schedule VARCHAR(100) NOT NULL DEFAULT '',
    start_date DATE NULL,
    end_date DATE NULL,
    fee INT NOT NULL DEFAULT 0,
    max_students INT NOT NULL DEFAULT 20,
    current_students INT NOT NULL DEFAULT 0,
    room VARCHAR(50) NOT NULL DEFAULT '',
    status ENUM('active','pending','completed','cancelled') NOT NULL DEFAULT 'active',
    is_active TINYINT(1) NOT NULL DEFAULT 1,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
    INDEX idx_lectures_instructor (instructor_id),
    INDEX idx_lectures_status (status)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`

const createStudentLectures = `
CREATE TABLE student_lectures (
    id BIGINT AUTO_INCREMENT PRIMARY KEY,
    student_id BIGINT NOT NULL,
    lecture_id BIGINT NOT NULL,
    enrolled_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    is_active TINYINT(1) NOT NULL DEFAULT 1,
    UNIQUE KEY uq_student_lecture (student_id, lecture_id),
    INDEX idx_sl_lecture (lecture_id),
    CONSTRAINT fk_sl_student FOREIGN KEY (student_id) REFERENCES students(id) ON DELETE CASCADE,
    CONSTRAINT fk_sl_lecture FOREIGN KEY (lecture_id) REFERENCES lectures(id) ON DELETE CASCADE
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`

const createInstructorLectures = `
CREATE TABLE instructor_lectures (
    id BIGINT AUTO_INCREMENT PRIMARY KEY,
    instructor_id BIGINT NOT NULL,
    lecture_id BIGINT NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE KEY uq_instructor_lecture (instructor_id, lecture_id),
    INDEX idx_il_lecture (lecture_id),
    CONSTRAINT fk_il_instructor FOREIGN KEY (instructor_id) REFERENCES instructors(id) ON DELETE CASCADE,
    CONSTRAINT fk_il_lecture FOREIGN KEY (lecture_id) REFERENCES lectures(id) ON DELETE CASCADE
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`

const createAttendanceRecords = `
CREATE TABLE attendance_records (
    id BIGINT AUTO_INCREMENT PRIMARY KEY,
    student_id BIGINT NOT NULL,
    student_name VARCHAR(100) NOT NULL DEFAULT '',
    class_name VARCHAR(100) NOT NULL DEFAULT '',
    status VARCHAR(50) NOT NULL,
    tagged_at DATETIME NOT NULL,
    is_keypad TINYINT(1) NULL,
    is_forced TINYINT(1) NOT NULL DEFAULT 0,
    device_id VARCHAR(50) NOT NULL DEFAULT '',
    comment VARCHAR(255) NOT NULL DEFAULT '',
    thumbnail MEDIUMTEXT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    INDEX idx_ar_student_tagged (student_id, tagged_at),
    INDEX idx_ar_tagged (tagged_at),
    CONSTRAINT fk_ar_student FOREIGN KEY (student_id) REFERENCES students(id) ON DELETE CASCADE
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`
