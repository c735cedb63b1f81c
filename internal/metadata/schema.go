package metadata

// Schema DDL for both dialects. The table shapes follow the reference
// mlmd crate's query.rs: one Type table shared by all three kinds, one
// TypeProperty table of declared properties shared likewise, a single nullable-triple property
// table per entity kind with an is_custom_property discriminator, and a
// surrogate-keyed EventPath table for deterministic path ordering.
// Implements: spec §4.8 "Dialect DDL".

const supportedSchemaVersion = 6

var sqliteSchemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS MLMDEnv (
    schema_version INTEGER NOT NULL
);`,
	`CREATE TABLE IF NOT EXISTS Type (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    kind INTEGER NOT NULL,
    name TEXT NOT NULL,
    version TEXT,
    description TEXT,
    input_type TEXT,
    output_type TEXT
);`,
	`CREATE TABLE IF NOT EXISTS TypeProperty (
    type_id INTEGER NOT NULL,
    name TEXT NOT NULL,
    data_type INTEGER NOT NULL,
    PRIMARY KEY (type_id, name)
);`,
	`CREATE TABLE IF NOT EXISTS ParentType (
    type_id INTEGER NOT NULL,
    parent_type_id INTEGER NOT NULL,
    PRIMARY KEY (type_id, parent_type_id)
);`,
	`CREATE TABLE IF NOT EXISTS Artifact (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    type_id INTEGER NOT NULL,
    name TEXT,
    uri TEXT,
    state INTEGER,
    create_time_since_epoch INT NOT NULL,
    last_update_time_since_epoch INT NOT NULL
);`,
	`CREATE TABLE IF NOT EXISTS ArtifactProperty (
    artifact_id INTEGER NOT NULL,
    name TEXT NOT NULL,
    is_custom_property INTEGER NOT NULL,
    int_value INTEGER,
    double_value REAL,
    string_value TEXT,
    PRIMARY KEY (artifact_id, name, is_custom_property)
);`,
	`CREATE TABLE IF NOT EXISTS Execution (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    type_id INTEGER NOT NULL,
    name TEXT,
    last_known_state INTEGER,
    create_time_since_epoch INT NOT NULL,
    last_update_time_since_epoch INT NOT NULL
);`,
	`CREATE TABLE IF NOT EXISTS ExecutionProperty (
    execution_id INTEGER NOT NULL,
    name TEXT NOT NULL,
    is_custom_property INTEGER NOT NULL,
    int_value INTEGER,
    double_value REAL,
    string_value TEXT,
    PRIMARY KEY (execution_id, name, is_custom_property)
);`,
	`CREATE TABLE IF NOT EXISTS Context (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    type_id INTEGER NOT NULL,
    name TEXT NOT NULL,
    create_time_since_epoch INT NOT NULL,
    last_update_time_since_epoch INT NOT NULL
);`,
	`CREATE TABLE IF NOT EXISTS ContextProperty (
    context_id INTEGER NOT NULL,
    name TEXT NOT NULL,
    is_custom_property INTEGER NOT NULL,
    int_value INTEGER,
    double_value REAL,
    string_value TEXT,
    PRIMARY KEY (context_id, name, is_custom_property)
);`,
	`CREATE TABLE IF NOT EXISTS Event (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    artifact_id INTEGER NOT NULL,
    execution_id INTEGER NOT NULL,
    type INTEGER NOT NULL,
    milliseconds_since_epoch INT NOT NULL
);`,
	`CREATE TABLE IF NOT EXISTS EventPath (
    event_path_id INTEGER PRIMARY KEY AUTOINCREMENT,
    event_id INTEGER NOT NULL,
    is_index_step INTEGER NOT NULL,
    step_index INTEGER,
    step_key TEXT
);`,
	`CREATE TABLE IF NOT EXISTS Attribution (
    context_id INTEGER NOT NULL,
    artifact_id INTEGER NOT NULL,
    PRIMARY KEY (context_id, artifact_id)
);`,
	`CREATE TABLE IF NOT EXISTS Association (
    context_id INTEGER NOT NULL,
    execution_id INTEGER NOT NULL,
    PRIMARY KEY (context_id, execution_id)
);`,
	`CREATE TABLE IF NOT EXISTS ParentContext (
    context_id INTEGER NOT NULL,
    parent_context_id INTEGER NOT NULL,
    PRIMARY KEY (context_id, parent_context_id)
);`,
}

var sqliteIndexDDL = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_type_kind_name_version ON Type(kind, name, version);`,
	`CREATE INDEX IF NOT EXISTS idx_artifact_type_id ON Artifact(type_id);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_artifact_type_id_name ON Artifact(type_id, name);`,
	`CREATE INDEX IF NOT EXISTS idx_artifact_uri ON Artifact(uri);`,
	`CREATE INDEX IF NOT EXISTS idx_execution_type_id ON Execution(type_id);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_execution_type_id_name ON Execution(type_id, name);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_context_type_id_name ON Context(type_id, name);`,
	`CREATE INDEX IF NOT EXISTS idx_event_artifact_id ON Event(artifact_id);`,
	`CREATE INDEX IF NOT EXISTS idx_event_execution_id ON Event(execution_id);`,
	`CREATE INDEX IF NOT EXISTS idx_event_path_event_id ON EventPath(event_id);`,
	`CREATE INDEX IF NOT EXISTS idx_attribution_artifact_id ON Attribution(artifact_id);`,
	`CREATE INDEX IF NOT EXISTS idx_association_execution_id ON Association(execution_id);`,
	`CREATE INDEX IF NOT EXISTS idx_parentcontext_parent_id ON ParentContext(parent_context_id);`,
}

// mysqlSchemaDDL mirrors sqliteSchemaDDL with MySQL's integer/autoincrement
// spellings. Millisecond-epoch columns widen from INT to BIGINT per spec
// §4.8 to outlive SQLite's untyped INT without truncation on MySQL.
var mysqlSchemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS MLMDEnv (
    schema_version INT NOT NULL
) ENGINE=InnoDB;`,
	`CREATE TABLE IF NOT EXISTS Type (
    id INT PRIMARY KEY AUTO_INCREMENT,
    kind INT NOT NULL,
    name VARCHAR(255) NOT NULL,
    version VARCHAR(255),
    description TEXT,
    input_type TEXT,
    output_type TEXT
) ENGINE=InnoDB;`,
	`CREATE TABLE IF NOT EXISTS TypeProperty (
    type_id INT NOT NULL,
    name VARCHAR(255) NOT NULL,
    data_type INT NOT NULL,
    PRIMARY KEY (type_id, name)
) ENGINE=InnoDB;`,
	`CREATE TABLE IF NOT EXISTS ParentType (
    type_id INT NOT NULL,
    parent_type_id INT NOT NULL,
    PRIMARY KEY (type_id, parent_type_id)
) ENGINE=InnoDB;`,
	`CREATE TABLE IF NOT EXISTS Artifact (
    id INT PRIMARY KEY AUTO_INCREMENT,
    type_id INT NOT NULL,
    name VARCHAR(255),
    uri TEXT,
    state INT,
    create_time_since_epoch BIGINT NOT NULL,
    last_update_time_since_epoch BIGINT NOT NULL
) ENGINE=InnoDB;`,
	`CREATE TABLE IF NOT EXISTS ArtifactProperty (
    artifact_id INT NOT NULL,
    name VARCHAR(255) NOT NULL,
    is_custom_property TINYINT NOT NULL,
    int_value BIGINT,
    double_value DOUBLE,
    string_value TEXT,
    PRIMARY KEY (artifact_id, name, is_custom_property)
) ENGINE=InnoDB;`,
	`CREATE TABLE IF NOT EXISTS Execution (
    id INT PRIMARY KEY AUTO_INCREMENT,
    type_id INT NOT NULL,
    name VARCHAR(255),
    last_known_state INT,
    create_time_since_epoch BIGINT NOT NULL,
    last_update_time_since_epoch BIGINT NOT NULL
) ENGINE=InnoDB;`,
	`CREATE TABLE IF NOT EXISTS ExecutionProperty (
    execution_id INT NOT NULL,
    name VARCHAR(255) NOT NULL,
    is_custom_property TINYINT NOT NULL,
    int_value BIGINT,
    double_value DOUBLE,
    string_value TEXT,
    PRIMARY KEY (execution_id, name, is_custom_property)
) ENGINE=InnoDB;`,
	`CREATE TABLE IF NOT EXISTS Context (
    id INT PRIMARY KEY AUTO_INCREMENT,
    type_id INT NOT NULL,
    name VARCHAR(255) NOT NULL,
    create_time_since_epoch BIGINT NOT NULL,
    last_update_time_since_epoch BIGINT NOT NULL
) ENGINE=InnoDB;`,
	`CREATE TABLE IF NOT EXISTS ContextProperty (
    context_id INT NOT NULL,
    name VARCHAR(255) NOT NULL,
    is_custom_property TINYINT NOT NULL,
    int_value BIGINT,
    double_value DOUBLE,
    string_value TEXT,
    PRIMARY KEY (context_id, name, is_custom_property)
) ENGINE=InnoDB;`,
	`CREATE TABLE IF NOT EXISTS Event (
    id INT PRIMARY KEY AUTO_INCREMENT,
    artifact_id INT NOT NULL,
    execution_id INT NOT NULL,
    type INT NOT NULL,
    milliseconds_since_epoch BIGINT NOT NULL
) ENGINE=InnoDB;`,
	`CREATE TABLE IF NOT EXISTS EventPath (
    event_path_id INT PRIMARY KEY AUTO_INCREMENT,
    event_id INT NOT NULL,
    is_index_step TINYINT NOT NULL,
    step_index INT,
    step_key VARCHAR(255)
) ENGINE=InnoDB;`,
	`CREATE TABLE IF NOT EXISTS Attribution (
    context_id INT NOT NULL,
    artifact_id INT NOT NULL,
    PRIMARY KEY (context_id, artifact_id)
) ENGINE=InnoDB;`,
	`CREATE TABLE IF NOT EXISTS Association (
    context_id INT NOT NULL,
    execution_id INT NOT NULL,
    PRIMARY KEY (context_id, execution_id)
) ENGINE=InnoDB;`,
	`CREATE TABLE IF NOT EXISTS ParentContext (
    context_id INT NOT NULL,
    parent_context_id INT NOT NULL,
    PRIMARY KEY (context_id, parent_context_id)
) ENGINE=InnoDB;`,
}

var mysqlIndexDDL = []string{
	`CREATE UNIQUE INDEX idx_type_kind_name_version ON Type(kind, name, version);`,
	`CREATE INDEX idx_artifact_type_id ON Artifact(type_id);`,
	`CREATE UNIQUE INDEX idx_artifact_type_id_name ON Artifact(type_id, name);`,
	`CREATE INDEX idx_artifact_uri ON Artifact(uri(255));`,
	`CREATE INDEX idx_execution_type_id ON Execution(type_id);`,
	`CREATE UNIQUE INDEX idx_execution_type_id_name ON Execution(type_id, name);`,
	`CREATE UNIQUE INDEX idx_context_type_id_name ON Context(type_id, name);`,
	`CREATE INDEX idx_event_artifact_id ON Event(artifact_id);`,
	`CREATE INDEX idx_event_execution_id ON Event(execution_id);`,
	`CREATE INDEX idx_event_path_event_id ON EventPath(event_id);`,
	`CREATE INDEX idx_attribution_artifact_id ON Attribution(artifact_id);`,
	`CREATE INDEX idx_association_execution_id ON Association(execution_id);`,
	`CREATE INDEX idx_parentcontext_parent_id ON ParentContext(parent_context_id);`,
}
