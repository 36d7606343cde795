package database

import (
	"fmt"
	"regexp"
)

// Tables whose row changes are broadcast on the realtime channel.
var RealtimeTables = []string{"posts", "comments", "notifications"}

// Columns kept when a change payload exceeds the NOTIFY size limit.
const realtimeKeyColumns = `'id', 'post_id', 'user_id', 'author_id'`

var channelPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

const counterFunctions = `
CREATE OR REPLACE FUNCTION scribe_like_counter() RETURNS trigger AS $$
BEGIN
	IF TG_OP = 'INSERT' THEN
		UPDATE posts SET like_count = like_count + 1 WHERE id = NEW.post_id;
	ELSIF TG_OP = 'DELETE' THEN
		UPDATE posts SET like_count = GREATEST(like_count - 1, 0) WHERE id = OLD.post_id;
	END IF;
	RETURN NULL;
END;
$$ LANGUAGE plpgsql;
`

const commentCounterFunction = `
CREATE OR REPLACE FUNCTION scribe_comment_counter() RETURNS trigger AS $$
BEGIN
	IF TG_OP = 'INSERT' THEN
		UPDATE posts SET comment_count = comment_count + 1 WHERE id = NEW.post_id;
	ELSIF TG_OP = 'DELETE' THEN
		UPDATE posts SET comment_count = GREATEST(comment_count - 1, 0) WHERE id = OLD.post_id;
	END IF;
	RETURN NULL;
END;
$$ LANGUAGE plpgsql;
`

const commentNotifyFunction = `
CREATE OR REPLACE FUNCTION scribe_notify_comment() RETURNS trigger AS $$
DECLARE
	recipient bigint;
	sender text;
BEGIN
	SELECT author_id INTO recipient FROM posts WHERE id = NEW.post_id;
	IF recipient IS NULL OR recipient = NEW.author_id THEN
		RETURN NULL;
	END IF;
	SELECT username INTO sender FROM profiles WHERE id = NEW.author_id;
	INSERT INTO notifications (user_id, type, data, is_read, created_at, updated_at)
	VALUES (recipient, 'new_comment', jsonb_build_object('sender_username', sender, 'post_id', NEW.post_id), false, now(), now());
	RETURN NULL;
END;
$$ LANGUAGE plpgsql;
`

const likeNotifyFunction = `
CREATE OR REPLACE FUNCTION scribe_notify_like() RETURNS trigger AS $$
DECLARE
	recipient bigint;
	sender text;
BEGIN
	SELECT author_id INTO recipient FROM posts WHERE id = NEW.post_id;
	IF recipient IS NULL OR recipient = NEW.user_id THEN
		RETURN NULL;
	END IF;
	SELECT username INTO sender FROM profiles WHERE id = NEW.user_id;
	INSERT INTO notifications (user_id, type, data, is_read, created_at, updated_at)
	VALUES (recipient, 'new_like', jsonb_build_object('sender_username', sender, 'post_id', NEW.post_id), false, now(), now());
	RETURN NULL;
END;
$$ LANGUAGE plpgsql;
`

const followNotifyFunction = `
CREATE OR REPLACE FUNCTION scribe_notify_follow() RETURNS trigger AS $$
DECLARE
	sender text;
BEGIN
	SELECT username INTO sender FROM profiles WHERE id = NEW.follower_id;
	INSERT INTO notifications (user_id, type, data, is_read, created_at, updated_at)
	VALUES (NEW.following_id, 'new_follower', jsonb_build_object('sender_username', sender), false, now(), now());
	RETURN NULL;
END;
$$ LANGUAGE plpgsql;
`

const broadcastFunction = `
CREATE OR REPLACE FUNCTION scribe_realtime_broadcast() RETURNS trigger AS $$
DECLARE
	rec jsonb;
	old_rec jsonb;
	payload jsonb;
	body text;
BEGIN
	IF TG_OP <> 'DELETE' THEN
		rec := to_jsonb(NEW);
	END IF;
	IF TG_OP <> 'INSERT' THEN
		old_rec := to_jsonb(OLD);
	END IF;
	payload := jsonb_build_object(
		'table', TG_TABLE_NAME,
		'type', TG_OP,
		'record', rec,
		'old_record', old_rec,
		'commit_timestamp', now()
	);
	body := payload::text;
	IF octet_length(body) > 7500 THEN
		payload := jsonb_build_object(
			'table', TG_TABLE_NAME,
			'type', TG_OP,
			'truncated', true,
			'record', (SELECT jsonb_object_agg(key, value) FROM jsonb_each(rec) WHERE key IN (%[2]s)),
			'old_record', (SELECT jsonb_object_agg(key, value) FROM jsonb_each(old_rec) WHERE key IN (%[2]s)),
			'commit_timestamp', now()
		);
		body := payload::text;
	END IF;
	PERFORM pg_notify('%[1]s', body);
	RETURN NULL;
END;
$$ LANGUAGE plpgsql;
`

func bindTrigger(name, table, events, function string) []string {
	return []string{
		fmt.Sprintf("DROP TRIGGER IF EXISTS %s ON %s", name, table),
		fmt.Sprintf("CREATE TRIGGER %s AFTER %s ON %s FOR EACH ROW EXECUTE FUNCTION %s()", name, events, table, function),
	}
}

func triggerStatements(channel string) ([]string, error) {
	if !channelPattern.MatchString(channel) {
		return nil, fmt.Errorf("invalid realtime channel name %q", channel)
	}

	statements := []string{
		counterFunctions,
		commentCounterFunction,
		commentNotifyFunction,
		likeNotifyFunction,
		followNotifyFunction,
		fmt.Sprintf(broadcastFunction, channel, realtimeKeyColumns),
	}
	statements = append(statements, bindTrigger("scribe_like_counter", "post_likes", "INSERT OR DELETE", "scribe_like_counter")...)
	statements = append(statements, bindTrigger("scribe_comment_counter", "comments", "INSERT OR DELETE", "scribe_comment_counter")...)
	statements = append(statements, bindTrigger("scribe_notify_comment", "comments", "INSERT", "scribe_notify_comment")...)
	statements = append(statements, bindTrigger("scribe_notify_like", "post_likes", "INSERT", "scribe_notify_like")...)
	statements = append(statements, bindTrigger("scribe_notify_follow", "followers", "INSERT", "scribe_notify_follow")...)
	for _, table := range RealtimeTables {
		statements = append(statements, bindTrigger("scribe_realtime_"+table, table, "INSERT OR UPDATE OR DELETE", "scribe_realtime_broadcast")...)
	}

	return statements, nil
}
